package hygiene

import (
	"reflect"
	"testing"

	"crmhygiene/record"
)

func TestEnrich(t *testing.T) {
	source := map[string]record.Value{
		record.FieldIndustry:    record.String("manufacturing"),
		record.FieldCompanySize: record.Number(250),
		record.FieldOwner:       record.String("default@example.com"),
	}

	r := record.New()
	r.SetString(record.FieldEmail, "a@b.com")
	r.SetString(record.FieldOwner, "ivanov@example.com")
	r.SetString(record.FieldIndustry, "")

	got := Enrich(r, source)

	// Присутствующее непустое значение не перезаписывается
	if text := got.Text(record.FieldOwner); text != "ivanov@example.com" {
		t.Errorf("owner overwritten: %q", text)
	}
	// Пустое значение заполняется
	if text := got.Text(record.FieldIndustry); text != "manufacturing" {
		t.Errorf("industry = %q, want %q", text, "manufacturing")
	}
	// Отсутствующее поле добавляется
	if v, ok := got.Get(record.FieldCompanySize); !ok || v.Text() != "250" {
		t.Errorf("company_size = %q, want %q", v.Text(), "250")
	}
	// Исходная запись не изменена
	if r.Has(record.FieldCompanySize) {
		t.Error("input record mutated")
	}
}

func TestEnrichEmptySource(t *testing.T) {
	r := record.New()
	r.SetString(record.FieldEmail, "a@b.com")
	r.SetString(record.FieldStage, "closed")

	got := Enrich(r, nil)

	if !reflect.DeepEqual(got.Fields(), r.Fields()) {
		t.Errorf("Fields() = %v, want %v", got.Fields(), r.Fields())
	}
	for _, f := range r.Fields() {
		if got.Text(f) != r.Text(f) {
			t.Errorf("field %s changed: %q -> %q", f, r.Text(f), got.Text(f))
		}
	}
}

// TestEnrichDeterministicOrder проверяет, что добавленные поля идут в
// отсортированном порядке ключей источника.
func TestEnrichDeterministicOrder(t *testing.T) {
	source := map[string]record.Value{
		"zeta":  record.String("z"),
		"alpha": record.String("a"),
		"mid":   record.String("m"),
	}

	got := Enrich(record.New(), source)

	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got.Fields(), want) {
		t.Errorf("Fields() = %v, want %v", got.Fields(), want)
	}
}
