package insights

import (
	"testing"
	"time"

	"crmhygiene/dedup"
	"crmhygiene/record"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func TestGenerateEmptyBatch(t *testing.T) {
	agg := NewAggregator(fixedClock)
	insights := agg.Generate(nil, nil)

	if len(insights) != len(MetricOrder) {
		t.Fatalf("got %d metrics, want %d", len(insights), len(MetricOrder))
	}
	for _, name := range MetricOrder {
		if insights[name] != 0 {
			t.Errorf("%s = %d, want 0", name, insights[name])
		}
	}
}

func TestGenerateMissingCounts(t *testing.T) {
	r1 := record.New()
	r1.SetString(record.FieldEmail, "a@b.com")
	r1.SetString(record.FieldOwner, "")
	r1.SetString(record.FieldCloseDate, "2026-06-01")

	r2 := record.New()
	r2.SetString(record.FieldEmail, "")
	r2.SetString(record.FieldOwner, "ivanov")

	agg := NewAggregator(fixedClock)
	insights := agg.Generate(record.Batch{r1, r2}, nil)

	if got := insights[MetricLeadsMissingEmail]; got != 1 {
		t.Errorf("%s = %d, want 1", MetricLeadsMissingEmail, got)
	}
	if got := insights[MetricNoOwner]; got != 1 {
		t.Errorf("%s = %d, want 1", MetricNoOwner, got)
	}
	// close_date есть только у первой записи, у второй отсутствует
	if got := insights[MetricNoCloseDate]; got != 1 {
		t.Errorf("%s = %d, want 1", MetricNoCloseDate, got)
	}
	// Поля stage нет во всем батче - метрика дает 0, а не ошибку
	if got := insights[MetricNoStage]; got != 0 {
		t.Errorf("%s = %d, want 0", MetricNoStage, got)
	}
}

func TestGenerateDuplicatesCount(t *testing.T) {
	agg := NewAggregator(fixedClock)
	pairs := []dedup.Pair{{I: 0, J: 1}, {I: 2, J: 5}}

	insights := agg.Generate(record.Batch{record.New()}, pairs)
	if got := insights[MetricDuplicates]; got != 2 {
		t.Errorf("%s = %d, want 2", MetricDuplicates, got)
	}
}

func TestGenerateStaleness(t *testing.T) {
	stale := record.New()
	stale.SetString(record.FieldLastActivity, "2020-01-01")

	fresh := record.New()
	fresh.SetString(record.FieldLastActivity, "2026-03-14")

	between := record.New() // 20 дней назад: свежая при 30, устаревшая при 14
	between.SetString(record.FieldLastActivity, "2026-02-23")

	agg := NewAggregator(fixedClock)
	insights := agg.Generate(record.Batch{stale, fresh, between}, nil)

	if got := insights[MetricStaleOpportunities]; got != 1 {
		t.Errorf("%s = %d, want 1", MetricStaleOpportunities, got)
	}
	if got := insights[MetricUntouchedLeads]; got != 2 {
		t.Errorf("%s = %d, want 2", MetricUntouchedLeads, got)
	}
}

func TestGenerateStalenessAbsentField(t *testing.T) {
	// Без поля last_activity во всем батче обе метрики давности дают 0
	agg := NewAggregator(fixedClock)
	insights := agg.Generate(record.Batch{record.New(), record.New()}, nil)

	if got := insights[MetricStaleOpportunities]; got != 0 {
		t.Errorf("%s = %d, want 0", MetricStaleOpportunities, got)
	}
	if got := insights[MetricUntouchedLeads]; got != 0 {
		t.Errorf("%s = %d, want 0", MetricUntouchedLeads, got)
	}
}

func TestGenerateMissingIndustrySize(t *testing.T) {
	full := record.New()
	full.SetString(record.FieldIndustry, "retail")
	full.SetNumber(record.FieldCompanySize, 50)

	partial := record.New()
	partial.SetString(record.FieldIndustry, "retail")

	agg := NewAggregator(fixedClock)

	insights := agg.Generate(record.Batch{full, partial}, nil)
	if got := insights[MetricMissingIndustrySize]; got != 1 {
		t.Errorf("%s = %d, want 1", MetricMissingIndustrySize, got)
	}

	// Если company_size нет нигде в батче, метрика дает 0
	insights = agg.Generate(record.Batch{partial}, nil)
	if got := insights[MetricMissingIndustrySize]; got != 0 {
		t.Errorf("%s without company_size = %d, want 0", MetricMissingIndustrySize, got)
	}
}

func TestGenerateInvalidContacts(t *testing.T) {
	bad := record.New()
	bad.SetString(record.FieldEmail, "not-an-email")
	bad.SetString(record.FieldPhone, "123")

	good := record.New()
	good.SetString(record.FieldEmail, "a@b.com")
	good.SetString(record.FieldPhone, "+79991234567")

	noContacts := record.New()
	noContacts.SetString(record.FieldOwner, "ivanov")

	agg := NewAggregator(fixedClock)
	insights := agg.Generate(record.Batch{bad, good, noContacts}, nil)

	// Запись с двумя плохими контактами считается один раз,
	// запись вовсе без контактных полей не считается
	if got := insights[MetricInvalidEmailOrPhone]; got != 1 {
		t.Errorf("%s = %d, want 1", MetricInvalidEmailOrPhone, got)
	}
}

func TestGeneratePastDue(t *testing.T) {
	past := record.New()
	past.SetString(record.FieldCloseDate, "2026-03-01")

	future := record.New()
	future.SetString(record.FieldCloseDate, "2026-04-01")

	garbage := record.New()
	garbage.SetString(record.FieldCloseDate, "soon")

	agg := NewAggregator(fixedClock)
	insights := agg.Generate(record.Batch{past, future, garbage}, nil)

	// Неразбираемая дата прошедшей не считается
	if got := insights[MetricPastDueCloseDates]; got != 1 {
		t.Errorf("%s = %d, want 1", MetricPastDueCloseDates, got)
	}
}

func TestGenerateNormalizationFixes(t *testing.T) {
	done := record.New()
	done.Set(record.FieldNormalized, record.Bool(true))

	notDone := record.New()

	agg := NewAggregator(fixedClock)
	insights := agg.Generate(record.Batch{done, notDone, done.Clone()}, nil)

	if got := insights[MetricNormalizationFixes]; got != 2 {
		t.Errorf("%s = %d, want 2", MetricNormalizationFixes, got)
	}
}

// TestGenerateRecordWithNegativeAmountOnly закрепляет, что запись с одной
// лишь отрицательной суммой не попадает ни в одну метрику.
func TestGenerateRecordWithNegativeAmountOnly(t *testing.T) {
	r := record.New()
	r.SetString(record.FieldAmount, "-5")

	agg := NewAggregator(fixedClock)
	insights := agg.Generate(record.Batch{r}, nil)

	for _, name := range MetricOrder {
		if insights[name] != 0 {
			t.Errorf("%s = %d, want 0", name, insights[name])
		}
	}
}
