package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Колонки генерируемой выгрузки
var header = []string{
	"first_name", "last_name", "email", "phone", "company",
	"industry", "company_size", "amount", "stage", "owner",
	"lead_source", "close_date", "last_activity", "account",
}

func main() {
	var (
		count      = flag.Int("count", 100, "количество записей")
		seed       = flag.Int64("seed", 0, "сид генератора (0 — случайный)")
		defectRate = flag.Float64("defect-rate", 0.3, "доля записей с дефектами [0..1]")
		dupRate    = flag.Float64("dup-rate", 0.05, "доля записей-дублей [0..1]")
		outputPath = flag.String("output", "crm_data.csv", "путь к итоговому CSV")
	)
	flag.Parse()

	if *count < 1 {
		log.Fatal("флаг -count должен быть положительным")
	}
	if *defectRate < 0 || *defectRate > 1 || *dupRate < 0 || *dupRate > 1 {
		log.Fatal("флаги -defect-rate и -dup-rate должны быть в [0, 1]")
	}

	faker := gofakeit.New(*seed)

	file, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf("Не удалось создать файл: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		log.Fatalf("Не удалось записать заголовок: %v", err)
	}

	var prev []string
	defects, dups := 0, 0
	for i := 0; i < *count; i++ {
		var row []string

		// Дубль: повторяем предыдущую запись со слегка измененным email
		if prev != nil && faker.Float64Range(0, 1) < *dupRate {
			row = append([]string(nil), prev...)
			row[2] = mutateEmail(row[2])
			dups++
		} else {
			row = generateRow(faker)
			if faker.Float64Range(0, 1) < *defectRate {
				injectDefect(faker, row)
				defects++
			}
		}

		if err := writer.Write(row); err != nil {
			log.Fatalf("Не удалось записать строку: %v", err)
		}
		prev = row
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Fatalf("Ошибка записи CSV: %v", err)
	}

	fmt.Printf("Сгенерировано %d записей (%d с дефектами, %d дублей): %s\n",
		*count, defects, dups, *outputPath)
}

// generateRow генерирует полностью заполненную корректную запись
func generateRow(faker *gofakeit.Faker) []string {
	now := time.Now()
	closeDate := faker.DateRange(now.AddDate(0, -2, 0), now.AddDate(0, 4, 0))
	lastActivity := faker.DateRange(now.AddDate(0, -3, 0), now)

	return []string{
		faker.FirstName(),
		faker.LastName(),
		faker.Email(),
		faker.Phone(),
		faker.Company(),
		faker.RandomString([]string{"Tech", "Manufacturing", "Retail", "Logistics", "Finance"}),
		strconv.Itoa(faker.Number(5, 5000)),
		fmt.Sprintf("%.2f", faker.Float64Range(100, 100000)),
		faker.RandomString([]string{"prospect", "qualified", "proposal", "negotiation", "closed"}),
		faker.Username(),
		faker.RandomString([]string{"web", "referral", "cold_call", "event"}),
		closeDate.Format("2006-01-02"),
		lastActivity.Format("2006-01-02"),
		faker.Company(),
	}
}

// injectDefect портит одно случайное поле записи
func injectDefect(faker *gofakeit.Faker, row []string) {
	switch faker.Number(0, 6) {
	case 0:
		row[2] = "" // нет email
	case 1:
		row[2] = "not-an-email"
	case 2:
		row[3] = "12345" // слишком короткий телефон
	case 3:
		row[9] = "" // нет владельца
	case 4:
		row[11] = "" // нет даты закрытия
	case 5:
		row[12] = "" // нет активности
	case 6:
		row[7] = fmt.Sprintf("%.2f", -faker.Float64Range(1, 1000)) // отрицательная сумма
	}
}

// mutateEmail убирает последний символ локальной части, имитируя опечатку
func mutateEmail(email string) string {
	for i, r := range email {
		if r == '@' && i > 1 {
			return email[:i-1] + email[i:]
		}
	}
	return email
}
