package insights

import (
	"math"
)

// Границы итогового балла здоровья
const (
	MaxScore       = 100
	CappedFloor    = 10
	LinearFloor    = 0
)

// ScoringPolicy сворачивает InsightMap в балл здоровья 0-100.
// Балл монотонно не возрастает по каждому счетчику метрики.
type ScoringPolicy interface {
	Name() string
	Score(insights InsightMap) int
}

// metricWeight вес и потолок штрафа одной метрики
type metricWeight struct {
	weight float64
	cap    float64
}

// CappedPolicy политика оценки по умолчанию: взвешенный штраф с потолком
// на метрику и нелинейным кусочным пересчетом в итоговый балл. Небольшие
// количества дефектов почти не двигают балл, концентрация серьезных
// дефектов быстро его обрушивает, а экстремальный счетчик в одном
// измерении не может в одиночку утопить балл ниже своего потолка.
type CappedPolicy struct {
	weights map[string]metricWeight
}

// NewCappedPolicy создает политику с весами по деловой серьезности:
// отсутствие владельца сделки весит на порядок больше косметической
// нормализации.
func NewCappedPolicy() *CappedPolicy {
	return &CappedPolicy{
		weights: map[string]metricWeight{
			MetricNoOwner:             {weight: 4.0, cap: 20},
			MetricDuplicates:          {weight: 2.0, cap: 15},
			MetricNoCloseDate:         {weight: 1.5, cap: 12},
			MetricNoStage:             {weight: 1.5, cap: 12},
			MetricPastDueCloseDates:   {weight: 1.25, cap: 10},
			MetricLeadsMissingEmail:   {weight: 1.0, cap: 10},
			MetricInvalidEmailOrPhone: {weight: 1.0, cap: 10},
			MetricStaleOpportunities:  {weight: 0.75, cap: 8},
			MetricContactsNoAccount:   {weight: 0.75, cap: 8},
			MetricUntouchedLeads:      {weight: 0.5, cap: 6},
			MetricMissingIndustrySize: {weight: 0.5, cap: 5},
			MetricNormalizationFixes:  {weight: 0.1, cap: 2},
		},
	}
}

// Name возвращает имя политики
func (p *CappedPolicy) Name() string {
	return "capped"
}

// Score вычисляет балл здоровья: штраф каждой метрики ограничен ее
// потолком, сумма штрафов пересчитывается монотонно убывающей кусочной
// функцией в диапазон [10, 100]. Нулевой штраф дает ровно 100.
func (p *CappedPolicy) Score(insights InsightMap) int {
	penalty := 0.0
	for name, mw := range p.weights {
		contribution := float64(insights[name]) * mw.weight
		if contribution > mw.cap {
			contribution = mw.cap
		}
		penalty += contribution
	}
	return remapPenalty(penalty)
}

// remapPenalty пересчитывает суммарный штраф в балл.
// Сегменты: 0 -> 100, (0,5] -> 95..99, (5,25] -> 75..94,
// (25,60] -> 50..74, (60,120] -> 10..49, дальше пол 10.
func remapPenalty(penalty float64) int {
	var score int
	switch {
	case penalty <= 0:
		return MaxScore
	case penalty <= 5:
		score = 100 - int(math.Ceil(penalty))
	case penalty <= 25:
		score = 94 - int(math.Floor((penalty-5)*19.0/20.0))
	case penalty <= 60:
		score = 74 - int(math.Floor((penalty-25)*24.0/35.0))
	case penalty <= 120:
		score = 49 - int(math.Floor((penalty-60)*39.0/60.0))
	default:
		score = CappedFloor
	}

	if score < CappedFloor {
		score = CappedFloor
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score
}

// LinearPolicy историческая линейная политика: 100 минус взвешенная сумма
// счетчиков без потолков, пол 0. Сохранена как именованная альтернатива,
// по умолчанию не используется.
type LinearPolicy struct {
	weights map[string]float64
}

// NewLinearPolicy создает линейную политику с историческими весами
func NewLinearPolicy() *LinearPolicy {
	return &LinearPolicy{
		weights: map[string]float64{
			MetricLeadsMissingEmail:   0.2,
			MetricNoCloseDate:         0.3,
			MetricDuplicates:          0.5,
			MetricNoOwner:             1.0,
			MetricNoStage:             0.3,
			MetricStaleOpportunities:  0.2,
			MetricUntouchedLeads:      0.15,
			MetricMissingIndustrySize: 0.1,
			MetricInvalidEmailOrPhone: 0.2,
			MetricContactsNoAccount:   0.2,
			MetricPastDueCloseDates:   0.25,
			MetricNormalizationFixes:  0.05,
		},
	}
}

// Name возвращает имя политики
func (p *LinearPolicy) Name() string {
	return "linear"
}

// Score вычисляет балл как 100 минус взвешенная сумма счетчиков
func (p *LinearPolicy) Score(insights InsightMap) int {
	penalty := 0.0
	for name, w := range p.weights {
		penalty += float64(insights[name]) * w
	}

	score := int(100 - penalty)
	if score < LinearFloor {
		score = LinearFloor
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score
}

// PolicyByName возвращает политику по имени конфигурации,
// по умолчанию capped.
func PolicyByName(name string) ScoringPolicy {
	if name == "linear" {
		return NewLinearPolicy()
	}
	return NewCappedPolicy()
}
