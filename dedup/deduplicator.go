package dedup

import (
	"runtime"
	"sync"

	"crmhygiene/record"
)

// DefaultThreshold порог схожести, выше которого пара считается дублем
const DefaultThreshold = 90.0

// Pair неупорядоченная пара индексов батча, признанная дублем.
// Всегда I < J, каждая пара сообщается не более одного раза.
type Pair struct {
	I int `json:"i"`
	J int `json:"j"`
}

// FindDuplicates находит все неупорядоченные пары записей батча, у которых
// схожесть значений keyField строго превышает threshold. Отсутствующее
// поле сравнивается как пустая строка.
//
// Сложность O(n^2) сравнений строк - это единственная квадратичная
// операция системы. Для больших батчей вызывающая сторона должна
// предусмотреть шардирование или предварительную группировку по дешевому
// ключу.
func FindDuplicates(batch record.Batch, keyField string, threshold float64) []Pair {
	keys := keyValues(batch, keyField)

	var pairs []Pair
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if Ratio(keys[i], keys[j]) > threshold {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
	}
	return pairs
}

// FindDuplicatesParallel параллельная версия FindDuplicates. Сравнения пар
// независимы и читают батч без записи, поэтому батч обязан быть полностью
// нормализован и обогащен до вызова. Результат детерминирован и совпадает
// с последовательной версией с точностью до порядка.
func FindDuplicatesParallel(batch record.Batch, keyField string, threshold float64) []Pair {
	keys := keyValues(batch, keyField)
	n := len(keys)
	if n < 2 {
		return nil
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}

	// Каждый воркер обрабатывает свои строки i, результаты складываются
	// по номеру строки, чтобы порядок пар не зависел от планировщика
	perRow := make([][]Pair, n)
	var wg sync.WaitGroup
	rowCh := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rowCh {
				var found []Pair
				for j := i + 1; j < n; j++ {
					if Ratio(keys[i], keys[j]) > threshold {
						found = append(found, Pair{I: i, J: j})
					}
				}
				perRow[i] = found
			}
		}()
	}

	for i := 0; i < n; i++ {
		rowCh <- i
	}
	close(rowCh)
	wg.Wait()

	var pairs []Pair
	for _, row := range perRow {
		pairs = append(pairs, row...)
	}
	return pairs
}

// keyValues собирает строковые значения ключевого поля по всем записям
func keyValues(batch record.Batch, keyField string) []string {
	keys := make([]string, len(batch))
	for i, rec := range batch {
		keys[i] = rec.Text(keyField)
	}
	return keys
}
