package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhygiene/alert"
	"crmhygiene/insights"
	"crmhygiene/record"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestPipeline(notifier alert.Notifier) *Pipeline {
	return New(Config{}, notifier, fixedClock, nil)
}

func TestRunEmptyBatch(t *testing.T) {
	p := newTestPipeline(nil)

	result := p.Run(nil, nil)

	require.NotNil(t, result)
	assert.Empty(t, result.Findings)
	assert.Empty(t, result.Duplicates)
	assert.Equal(t, insights.MaxScore, result.Score)
	for _, name := range insights.MetricOrder {
		assert.Zero(t, result.Insights[name], name)
	}
}

// TestRunDuplicateAndStale закрепляет сквозной сценарий: пара почти
// одинаковых адресов дает один дубль, устаревшая запись - одну метрику
// давности, итоговый балл строго меньше 100.
func TestRunDuplicateAndStale(t *testing.T) {
	r1 := record.New()
	r1.SetString(record.FieldEmail, "a@x.com")
	r1.SetString(record.FieldLastActivity, "2020-01-01")

	r2 := record.New()
	r2.SetString(record.FieldEmail, "a@x.co")
	r2.SetString(record.FieldLastActivity, testNow.Format("2006-01-02"))

	p := newTestPipeline(nil)
	result := p.Run(record.Batch{r1, r2}, nil)

	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, 0, result.Duplicates[0].I)
	assert.Equal(t, 1, result.Duplicates[0].J)

	assert.Equal(t, 1, result.Insights[insights.MetricStaleOpportunities])
	assert.Less(t, result.Score, insights.MaxScore)
}

func TestRunAlertOrder(t *testing.T) {
	// Первая запись: не хватает полей, ошибки валидации и устаревание
	r1 := record.New()
	r1.SetString(record.FieldEmail, "bad-email")
	r1.SetString(record.FieldPhone, "123")

	// Вторая запись: полностью чистая
	r2 := record.New()
	r2.SetString(record.FieldEmail, "ok@example.com")
	r2.SetString(record.FieldLeadSource, "web")
	r2.SetString(record.FieldCloseDate, "2026-06-01")
	r2.SetString(record.FieldLastActivity, "2026-03-14")

	notifier := alert.NewMemoryNotifier()
	p := newTestPipeline(notifier)
	p.Run(record.Batch{r1, r2}, nil)

	messages := notifier.Messages()
	require.Len(t, messages, 3)

	// Порядок внутри записи: обязательные поля, валидация, давность
	assert.Contains(t, messages[0].Text, "Record 0 missing fields")
	assert.Contains(t, messages[0].Text, record.FieldLeadSource)
	assert.Contains(t, messages[0].Text, record.FieldCloseDate)
	assert.Contains(t, messages[1].Text, "Record 0 validation errors")
	assert.Contains(t, messages[1].Text, "Invalid email")
	assert.Contains(t, messages[1].Text, "Invalid phone number")
	assert.Equal(t, "Record 0 is stale", messages[2].Text)

	for _, m := range messages {
		assert.Equal(t, DefaultAlertRecipient, m.Recipient)
	}
}

func TestRunNormalizesAndEnriches(t *testing.T) {
	r := record.New()
	r.SetString(record.FieldFirstName, "john")
	r.SetString(record.FieldPhone, "+7 (999) 123-45-67")
	r.SetString(record.FieldEmail, "j@x.com")

	enrichment := map[string]record.Value{
		record.FieldIndustry: record.String("retail"),
		record.FieldEmail:    record.String("default@x.com"),
	}

	p := newTestPipeline(nil)
	result := p.Run(record.Batch{r}, enrichment)

	processed := result.Batch[0]
	assert.Equal(t, "John", processed.Text(record.FieldFirstName))
	assert.Equal(t, "79991234567", processed.Text(record.FieldPhone))
	// Обогащение не перезаписывает присутствующее значение
	assert.Equal(t, "j@x.com", processed.Text(record.FieldEmail))
	// Отсутствующее поле заполняется
	assert.Equal(t, "retail", processed.Text(record.FieldIndustry))

	// Флаг нормализации установлен и посчитан метрикой
	v, ok := processed.Get(record.FieldNormalized)
	require.True(t, ok)
	assert.True(t, v.True())
	assert.Equal(t, 1, result.Insights[insights.MetricNormalizationFixes])
}

// TestRunFindingsBeforeNormalization проверяет, что детекторы видят
// запись до нормализации и обогащения.
func TestRunFindingsBeforeNormalization(t *testing.T) {
	r := record.New()
	r.SetString(record.FieldPhone, "+7 (999) 123-45-67") // валиден только после нормализации

	enrichment := map[string]record.Value{
		record.FieldEmail:      record.String("filled@x.com"),
		record.FieldLeadSource: record.String("import"),
		record.FieldCloseDate:  record.String("2026-06-01"),
	}

	notifier := alert.NewMemoryNotifier()
	p := newTestPipeline(notifier)
	result := p.Run(record.Batch{r}, enrichment)

	var kinds []FindingKind
	for _, f := range result.Findings {
		kinds = append(kinds, f.Kind)
	}
	assert.Contains(t, kinds, FindingMissingFields)
	assert.Contains(t, kinds, FindingValidation)

	// После прогона запись обогащена, но алерты отражают исходное состояние
	assert.Equal(t, "filled@x.com", result.Batch[0].Text(record.FieldEmail))
}

func TestRunNegativeAmountOnly(t *testing.T) {
	r := record.New()
	r.SetString(record.FieldAmount, "-5")

	notifier := alert.NewMemoryNotifier()
	p := newTestPipeline(notifier)
	result := p.Run(record.Batch{r}, nil)

	var validation *Finding
	for i := range result.Findings {
		if result.Findings[i].Kind == FindingValidation {
			validation = &result.Findings[i]
		}
	}
	require.NotNil(t, validation)
	assert.Equal(t, []string{"Negative amount"}, validation.Details)

	// Отрицательная сумма не попадает ни в одну метрику
	for _, name := range insights.MetricOrder {
		if name == insights.MetricNormalizationFixes {
			continue
		}
		assert.Zero(t, result.Insights[name], name)
	}
}

func TestFindingMessage(t *testing.T) {
	tests := []struct {
		name    string
		finding Finding
		want    string
	}{
		{
			name:    "missing fields",
			finding: Finding{RecordIndex: 3, Kind: FindingMissingFields, Details: []string{"email", "close_date"}},
			want:    "Record 3 missing fields: [email close_date]",
		},
		{
			name:    "validation",
			finding: Finding{RecordIndex: 0, Kind: FindingValidation, Details: []string{"Invalid email"}},
			want:    "Record 0 validation errors: [Invalid email]",
		},
		{
			name:    "stale",
			finding: Finding{RecordIndex: 7, Kind: FindingStale},
			want:    "Record 7 is stale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.finding.Message())
		})
	}
}

func TestRunLinearPolicy(t *testing.T) {
	r := record.New()
	r.SetString(record.FieldEmail, "a@x.com")
	r.SetString(record.FieldOwner, "")

	p := New(Config{ScoringPolicy: insights.NewLinearPolicy()}, nil, fixedClock, nil)
	result := p.Run(record.Batch{r}, nil)

	// 1 без владельца (1.0) + нормализация (0.05); метрики давности дают 0,
	// так как поля last_activity нет во всем батче
	assert.Equal(t, 98, result.Score)
}

// TestRunAlertTextsMatchBatchOrder проверяет, что алерты идут в порядке
// батча: сначала все находки записи 0, затем записи 1.
func TestRunAlertTextsMatchBatchOrder(t *testing.T) {
	r1 := record.New() // нет всех обязательных полей
	r2 := record.New()
	r2.SetString(record.FieldAmount, "abc")

	notifier := alert.NewMemoryNotifier()
	p := newTestPipeline(notifier)
	p.Run(record.Batch{r1, r2}, nil)

	var indexes []int
	for _, m := range notifier.Messages() {
		if strings.HasPrefix(m.Text, "Record 0") {
			indexes = append(indexes, 0)
		} else {
			indexes = append(indexes, 1)
		}
	}

	last := -1
	for _, idx := range indexes {
		require.GreaterOrEqual(t, idx, last)
		last = idx
	}
}
