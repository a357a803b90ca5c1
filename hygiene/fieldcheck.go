// Package hygiene содержит по-записные проверки и исправления качества
// CRM-данных: контроль обязательных полей, валидацию форматов, определение
// устаревших записей, нормализацию и обогащение.
package hygiene

import (
	"crmhygiene/record"
)

// CheckRequired возвращает имена обязательных полей, которые отсутствуют
// в записи или содержат пустое значение. Порядок результата повторяет
// порядок required. Пустой результат означает полностью заполненную запись.
func CheckRequired(rec *record.Record, required []string) []string {
	var missing []string
	for _, field := range required {
		if rec.Missing(field) {
			missing = append(missing, field)
		}
	}
	return missing
}
