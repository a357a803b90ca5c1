package hygiene

import (
	"regexp"

	"crmhygiene/record"
)

// Сообщения валидатора. Поверхность метрик и алертов опирается на эти
// строки, поэтому они вынесены в константы.
const (
	ErrInvalidEmail   = "Invalid email"
	ErrInvalidPhone   = "Invalid phone number"
	ErrInvalidAmount  = "Invalid amount"
	ErrNegativeAmount = "Negative amount"
)

var (
	// Локальная часть и домен без пробелов и @, домен содержит точку
	emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Опциональный ведущий + и ровно 7-15 цифр
	phoneRegexp = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// Validate проверяет форматы значений записи и возвращает список найденных
// ошибок в стабильном порядке: email, телефон, сумма. Проверяются только
// присутствующие в записи поля: полностью отсутствующее поле - зона
// ответственности CheckRequired, а не валидатора.
func Validate(rec *record.Record) []string {
	var errs []string

	if v, ok := rec.Get(record.FieldEmail); ok {
		if !emailRegexp.MatchString(v.Text()) {
			errs = append(errs, ErrInvalidEmail)
		}
	}

	if v, ok := rec.Get(record.FieldPhone); ok {
		if !phoneRegexp.MatchString(v.Text()) {
			errs = append(errs, ErrInvalidPhone)
		}
	}

	if v, ok := rec.Get(record.FieldAmount); ok {
		// Сначала попытка разбора числа, знак проверяется только после
		// успешного разбора: ошибка формата и отрицательное значение -
		// разные находки и не должны смешиваться.
		if f, numOK := v.Float(); !numOK {
			errs = append(errs, ErrInvalidAmount)
		} else if f < 0 {
			errs = append(errs, ErrNegativeAmount)
		}
	}

	return errs
}

// ValidEmail проверяет строку на форму local@domain.tld
func ValidEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// ValidPhone проверяет строку на форму телефона: необязательный + и 7-15 цифр
func ValidPhone(s string) bool {
	return phoneRegexp.MatchString(s)
}
