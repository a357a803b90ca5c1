package hygiene

import (
	"time"

	"crmhygiene/record"
)

// DateLayout фиксированный формат дат в CRM-выгрузках
const DateLayout = "2006-01-02"

// Пороги устаревания в днях
const (
	DefaultStaleDays    = 30
	UntouchedLeadDays   = 14
)

// IsStale классифицирует запись как устаревшую по полю last_activity.
// Отсутствующая, нестроковая или неразбираемая дата дает true: неизвестная
// давность активности трактуется как устаревание, а не как ошибка.
// Момент "сейчас" передается явно, чтобы поведение было детерминированным.
func IsStale(rec *record.Record, thresholdDays int, now time.Time) bool {
	v, ok := rec.Get(record.FieldLastActivity)
	if !ok || v.Kind() != record.KindString {
		return true
	}

	last, err := time.Parse(DateLayout, v.Text())
	if err != nil {
		return true
	}

	days := int(now.Sub(last).Hours() / 24)
	return days > thresholdDays
}

// ParseDate разбирает дату фиксированного формата из значения поля.
// Второй результат false для отсутствующего, нестрокового или
// неразбираемого значения.
func ParseDate(v record.Value, ok bool) (time.Time, bool) {
	if !ok || v.Kind() != record.KindString {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, v.Text())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
