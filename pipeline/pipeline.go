// Package pipeline оркестрирует аудит батча CRM-записей: по-записный
// проход детекторов с выдачей структурированных находок, пакетный поиск
// дублей, агрегацию метрик и расчет балла здоровья.
package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crmhygiene/alert"
	"crmhygiene/dedup"
	"crmhygiene/hygiene"
	"crmhygiene/insights"
	"crmhygiene/record"
)

// DefaultRequiredFields обязательные поля по-записной проверки
var DefaultRequiredFields = []string{
	record.FieldEmail,
	record.FieldLeadSource,
	record.FieldCloseDate,
}

// DefaultAlertRecipient получатель алертов по умолчанию
const DefaultAlertRecipient = "owner@example.com"

// Батч такого размера и больше дедуплицируется параллельно.
// Сравнение пар квадратично, на малых батчах накладные расходы
// горутин не окупаются.
const parallelDedupeMin = 500

// FindingKind тип находки по-записного прохода
type FindingKind string

const (
	FindingMissingFields FindingKind = "missing_fields"
	FindingValidation    FindingKind = "validation"
	FindingStale         FindingKind = "stale"
)

// Finding структурированная находка по одной записи. Обнаружение отделено
// от доставки: по-записный проход возвращает находки, отдельный шаг
// превращает их в уведомления, сохраняя порядок выдачи.
type Finding struct {
	RecordIndex int         `json:"record_index"`
	Kind        FindingKind `json:"kind"`
	Details     []string    `json:"details"`
}

// Message собирает человекочитаемый текст алерта находки
func (f Finding) Message() string {
	switch f.Kind {
	case FindingMissingFields:
		return fmt.Sprintf("Record %d missing fields: [%s]", f.RecordIndex, strings.Join(f.Details, " "))
	case FindingValidation:
		return fmt.Sprintf("Record %d validation errors: [%s]", f.RecordIndex, strings.Join(f.Details, "; "))
	case FindingStale:
		return fmt.Sprintf("Record %d is stale", f.RecordIndex)
	default:
		return fmt.Sprintf("Record %d: %s", f.RecordIndex, strings.Join(f.Details, "; "))
	}
}

// Config параметры одного прогона аудита
type Config struct {
	RequiredFields []string
	DedupKeyField  string
	DedupThreshold float64
	StaleDays      int
	AlertRecipient string
	ScoringPolicy  insights.ScoringPolicy
}

// normalizeDefaults заполняет незаданные параметры значениями по умолчанию
func (c *Config) normalizeDefaults() {
	if len(c.RequiredFields) == 0 {
		c.RequiredFields = DefaultRequiredFields
	}
	if c.DedupKeyField == "" {
		c.DedupKeyField = record.FieldEmail
	}
	if c.DedupThreshold <= 0 {
		c.DedupThreshold = dedup.DefaultThreshold
	}
	if c.StaleDays <= 0 {
		c.StaleDays = hygiene.DefaultStaleDays
	}
	if c.AlertRecipient == "" {
		c.AlertRecipient = DefaultAlertRecipient
	}
	if c.ScoringPolicy == nil {
		c.ScoringPolicy = insights.NewCappedPolicy()
	}
}

// Result итог одного прогона аудита
type Result struct {
	Batch      record.Batch       `json:"records"`
	Findings   []Finding          `json:"findings"`
	Duplicates []dedup.Pair       `json:"duplicates"`
	Insights   insights.InsightMap `json:"insights"`
	Score      int                `json:"health_score"`
}

// Pipeline оркестратор аудита. Прогон однопоточный и синхронный,
// батч мутируется ровно один раз за проход.
type Pipeline struct {
	cfg      Config
	notifier alert.Notifier
	now      func() time.Time
	log      *slog.Logger
}

// New создает пайплайн. Нулевые поля конфигурации получают значения по
// умолчанию, nil-нотификатор заменяется накоплением в памяти, nil-часы -
// системными.
func New(cfg Config, notifier alert.Notifier, now func() time.Time, log *slog.Logger) *Pipeline {
	cfg.normalizeDefaults()
	if notifier == nil {
		notifier = alert.NewMemoryNotifier()
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, notifier: notifier, now: now, log: log}
}

// Run выполняет полный аудит батча. Фатальных путей ошибок в ядре нет:
// каждая проблема записи деградирует до находки или метрики, а не
// прерывает прогон. Батч заменяется нормализованными и обогащенными
// копиями записей, исходные записи не мутируются.
func (p *Pipeline) Run(batch record.Batch, enrichment map[string]record.Value) *Result {
	started := p.now()
	result := &Result{Batch: batch}

	// По-записный проход: находки до нормализации, алерты немедленно,
	// порядок внутри записи: обязательные поля, валидация, давность
	for i, rec := range batch {
		findings := p.inspect(i, rec)
		for _, f := range findings {
			p.notifier.Notify(p.cfg.AlertRecipient, f.Message())
		}
		result.Findings = append(result.Findings, findings...)

		processed := hygiene.Enrich(hygiene.Normalize(rec), enrichment)
		processed.Set(record.FieldNormalized, record.Bool(true))
		result.Batch[i] = processed
	}

	// Пакетный проход по уже неизменяемому нормализованному батчу
	if len(result.Batch) >= parallelDedupeMin {
		result.Duplicates = dedup.FindDuplicatesParallel(result.Batch, p.cfg.DedupKeyField, p.cfg.DedupThreshold)
	} else {
		result.Duplicates = dedup.FindDuplicates(result.Batch, p.cfg.DedupKeyField, p.cfg.DedupThreshold)
	}

	aggregator := insights.NewAggregator(p.now)
	result.Insights = aggregator.Generate(result.Batch, result.Duplicates)
	result.Score = p.cfg.ScoringPolicy.Score(result.Insights)

	p.log.Info("audit completed",
		"records", len(batch),
		"findings", len(result.Findings),
		"duplicates", len(result.Duplicates),
		"score", result.Score,
		"policy", p.cfg.ScoringPolicy.Name(),
		"duration", p.now().Sub(started),
	)

	return result
}

// inspect выполняет детекторы над одной записью в фиксированном порядке
func (p *Pipeline) inspect(index int, rec *record.Record) []Finding {
	var findings []Finding

	if missing := hygiene.CheckRequired(rec, p.cfg.RequiredFields); len(missing) > 0 {
		findings = append(findings, Finding{
			RecordIndex: index,
			Kind:        FindingMissingFields,
			Details:     missing,
		})
	}

	if errs := hygiene.Validate(rec); len(errs) > 0 {
		findings = append(findings, Finding{
			RecordIndex: index,
			Kind:        FindingValidation,
			Details:     errs,
		})
	}

	if hygiene.IsStale(rec, p.cfg.StaleDays, p.now()) {
		findings = append(findings, Finding{
			RecordIndex: index,
			Kind:        FindingStale,
		})
	}

	return findings
}
