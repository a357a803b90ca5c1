// Package insights агрегирует батч в карту именованных метрик качества
// и сворачивает её в единый ограниченный балл здоровья CRM.
package insights

import (
	"time"

	"crmhygiene/dedup"
	"crmhygiene/hygiene"
	"crmhygiene/record"
)

// Имена метрик. Набор фиксирован, порядок задается MetricOrder.
const (
	MetricLeadsMissingEmail    = "Leads Missing Email"
	MetricNoCloseDate          = "Opportunities Without Close Date"
	MetricDuplicates           = "Duplicate Records Detected"
	MetricNoOwner              = "Opportunities Without Owner"
	MetricNoStage              = "Deals Without Stage"
	MetricStaleOpportunities   = "Stale Opportunities"
	MetricUntouchedLeads       = "Untouched Leads (14+ days)"
	MetricMissingIndustrySize  = "Missing Industry/Company Size"
	MetricInvalidEmailOrPhone  = "Invalid Email or Phone"
	MetricContactsNoAccount    = "Contacts Without Accounts"
	MetricPastDueCloseDates    = "Past-Due Close Dates"
	MetricNormalizationFixes   = "Normalization Fixes"
)

// MetricOrder фиксированный порядок метрик для презентационного слоя
var MetricOrder = []string{
	MetricLeadsMissingEmail,
	MetricNoCloseDate,
	MetricDuplicates,
	MetricNoOwner,
	MetricNoStage,
	MetricStaleOpportunities,
	MetricUntouchedLeads,
	MetricMissingIndustrySize,
	MetricInvalidEmailOrPhone,
	MetricContactsNoAccount,
	MetricPastDueCloseDates,
	MetricNormalizationFixes,
}

// InsightMap отображение имени метрики в неотрицательный счетчик.
// Вычисляется заново на каждый прогон и не сохраняется.
type InsightMap map[string]int

// Aggregator сканирует обработанный батч и список дублей и строит InsightMap.
// Момент "сейчас" инжектируется для детерминированных проверок давности.
type Aggregator struct {
	Now func() time.Time
}

// NewAggregator создает агрегатор с заданным источником времени.
// nil означает системные часы.
func NewAggregator(now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{Now: now}
}

// Generate вычисляет все 12 метрик по батчу. Метрика, зависящая от поля,
// которого нет ни в одной записи батча, дает 0, а не ошибку.
func (a *Aggregator) Generate(batch record.Batch, duplicates []dedup.Pair) InsightMap {
	now := a.Now()

	insights := InsightMap{
		MetricLeadsMissingEmail:   a.countMissing(batch, record.FieldEmail),
		MetricNoCloseDate:         a.countMissing(batch, record.FieldCloseDate),
		MetricDuplicates:          len(duplicates),
		MetricNoOwner:             a.countMissing(batch, record.FieldOwner),
		MetricNoStage:             a.countMissing(batch, record.FieldStage),
		MetricStaleOpportunities:  a.countStale(batch, hygiene.DefaultStaleDays, now),
		MetricUntouchedLeads:      a.countStale(batch, hygiene.UntouchedLeadDays, now),
		MetricMissingIndustrySize: a.countMissingIndustrySize(batch),
		MetricInvalidEmailOrPhone: a.countInvalidContacts(batch),
		MetricContactsNoAccount:   a.countMissing(batch, record.FieldAccountID),
		MetricPastDueCloseDates:   a.countPastDue(batch, now),
		MetricNormalizationFixes:  a.countNormalized(batch),
	}

	return insights
}

// batchHasField сообщает, присутствует ли поле хотя бы в одной записи
func batchHasField(batch record.Batch, field string) bool {
	for _, rec := range batch {
		if rec.Has(field) {
			return true
		}
	}
	return false
}

// countMissing считает записи с отсутствующим или пустым полем.
// 0, если поля нет во всем батче.
func (a *Aggregator) countMissing(batch record.Batch, field string) int {
	if !batchHasField(batch, field) {
		return 0
	}
	count := 0
	for _, rec := range batch {
		if rec.Missing(field) {
			count++
		}
	}
	return count
}

// countStale считает устаревшие записи при заданном пороге в днях.
// Запись без last_activity считается устаревшей, но если поля нет
// во всем батче, метрика дает 0.
func (a *Aggregator) countStale(batch record.Batch, thresholdDays int, now time.Time) int {
	if !batchHasField(batch, record.FieldLastActivity) {
		return 0
	}
	count := 0
	for _, rec := range batch {
		if hygiene.IsStale(rec, thresholdDays, now) {
			count++
		}
	}
	return count
}

// countMissingIndustrySize считает записи, у которых пусто хотя бы одно из
// полей industry / company_size. Требует присутствия обоих полей в батче.
func (a *Aggregator) countMissingIndustrySize(batch record.Batch) int {
	if !batchHasField(batch, record.FieldIndustry) || !batchHasField(batch, record.FieldCompanySize) {
		return 0
	}
	count := 0
	for _, rec := range batch {
		if rec.Missing(record.FieldIndustry) || rec.Missing(record.FieldCompanySize) {
			count++
		}
	}
	return count
}

// countInvalidContacts считает записи, у которых валидатор нашел ошибку
// email или телефона
func (a *Aggregator) countInvalidContacts(batch record.Batch) int {
	if !batchHasField(batch, record.FieldEmail) && !batchHasField(batch, record.FieldPhone) {
		return 0
	}
	count := 0
	for _, rec := range batch {
		for _, e := range hygiene.Validate(rec) {
			if e == hygiene.ErrInvalidEmail || e == hygiene.ErrInvalidPhone {
				count++
				break
			}
		}
	}
	return count
}

// countPastDue считает записи, у которых close_date разбирается и строго
// раньше текущего момента. Неразбираемая дата прошедшей не считается.
func (a *Aggregator) countPastDue(batch record.Batch, now time.Time) int {
	if !batchHasField(batch, record.FieldCloseDate) {
		return 0
	}
	count := 0
	for _, rec := range batch {
		if t, ok := hygiene.ParseDate(rec.Get(record.FieldCloseDate)); ok && t.Before(now) {
			count++
		}
	}
	return count
}

// countNormalized считает записи с установленным флагом normalized
func (a *Aggregator) countNormalized(batch record.Batch) int {
	count := 0
	for _, rec := range batch {
		if v, ok := rec.Get(record.FieldNormalized); ok && v.True() {
			count++
		}
	}
	return count
}
