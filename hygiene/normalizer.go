package hygiene

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"crmhygiene/record"
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// Normalize приводit поля записи к канонической форме и возвращает новую
// запись, не изменяя исходную: имя и фамилия получают заглавную первую
// букву каждого слова, телефон очищается до одних цифр. Преобразование
// применяется только к присутствующим непустым полям, остальные поля
// проходят без изменений. Операция идемпотентна.
func Normalize(rec *record.Record) *record.Record {
	normalized := rec.Clone()

	// cases.Caser не потокобезопасен, создается на каждый вызов
	titleCaser := cases.Title(language.English)

	for _, field := range []string{record.FieldFirstName, record.FieldLastName} {
		if v, ok := normalized.Get(field); ok && !v.IsZero() {
			normalized.SetString(field, titleCaser.String(v.Text()))
		}
	}

	if v, ok := normalized.Get(record.FieldPhone); ok && !v.IsZero() {
		// Телефон без единой цифры дает пустую строку, это не ошибка
		normalized.SetString(record.FieldPhone, nonDigitRegexp.ReplaceAllString(v.Text(), ""))
	}

	return normalized
}
