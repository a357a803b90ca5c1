package record

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestValueIsZero(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{name: "empty value", v: Empty(), want: true},
		{name: "empty string", v: String(""), want: true},
		{name: "non-empty string", v: String("x"), want: false},
		{name: "zero number", v: Number(0), want: true},
		{name: "positive number", v: Number(12.5), want: false},
		{name: "negative number", v: Number(-1), want: false},
		{name: "false bool", v: Bool(false), want: true},
		{name: "true bool", v: Bool(true), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueText(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "string", v: String("hello"), want: "hello"},
		{name: "integer number", v: Number(42), want: "42"},
		{name: "fractional number", v: Number(12.5), want: "12.5"},
		{name: "empty", v: Empty(), want: ""},
		{name: "bool", v: Bool(true), want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		want   float64
		wantOK bool
	}{
		{name: "number", v: Number(-5), want: -5, wantOK: true},
		{name: "numeric string", v: String("-5"), want: -5, wantOK: true},
		{name: "numeric string with spaces", v: String(" 10.5 "), want: 10.5, wantOK: true},
		{name: "non-numeric string", v: String("abc"), wantOK: false},
		{name: "empty value", v: Empty(), wantOK: false},
		{name: "bool", v: Bool(true), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Float()
			if ok != tt.wantOK {
				t.Fatalf("Float() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Float() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordOrderPreserved(t *testing.T) {
	r := New()
	r.SetString(FieldLastName, "smith")
	r.SetString(FieldFirstName, "john")
	r.SetString(FieldEmail, "john@example.com")

	want := []string{FieldLastName, FieldFirstName, FieldEmail}
	if got := r.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}

	// Повторная установка не меняет позицию поля
	r.SetString(FieldLastName, "brown")
	if got := r.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() after overwrite = %v, want %v", got, want)
	}
	if got := r.Text(FieldLastName); got != "brown" {
		t.Errorf("Text(last_name) = %q, want %q", got, "brown")
	}
}

func TestRecordMissing(t *testing.T) {
	r := New()
	r.SetString(FieldEmail, "")
	r.SetString(FieldOwner, "ivanov")
	r.Set(FieldStage, Empty())

	tests := []struct {
		field string
		want  bool
	}{
		{field: FieldEmail, want: true},
		{field: FieldOwner, want: false},
		{field: FieldStage, want: true},
		{field: FieldPhone, want: true},
	}

	for _, tt := range tests {
		if got := r.Missing(tt.field); got != tt.want {
			t.Errorf("Missing(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestRecordClone(t *testing.T) {
	r := New()
	r.SetString(FieldFirstName, "anna")
	r.SetNumber(FieldAmount, 100)

	c := r.Clone()
	c.SetString(FieldFirstName, "maria")
	c.SetString(FieldOwner, "petrov")

	if got := r.Text(FieldFirstName); got != "anna" {
		t.Errorf("original mutated: first_name = %q", got)
	}
	if r.Has(FieldOwner) {
		t.Error("original mutated: owner appeared")
	}
	if got := c.Text(FieldFirstName); got != "maria" {
		t.Errorf("clone first_name = %q, want %q", got, "maria")
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	data := []byte(`{"last_name":"smith","first_name":"john","amount":-5,"active":true,"stage":null}`)

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	wantFields := []string{"last_name", "first_name", "amount", "active", "stage"}
	if got := r.Fields(); !reflect.DeepEqual(got, wantFields) {
		t.Fatalf("Fields() = %v, want %v", got, wantFields)
	}

	if f, ok := r.values["amount"], r.Has("amount"); !ok || f.Kind() != KindNumber {
		t.Errorf("amount kind = %v, want KindNumber", f.Kind())
	}
	if !r.Missing("stage") {
		t.Error("null field must count as missing")
	}

	out, err := json.Marshal(&r)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != string(data) {
		t.Errorf("round trip = %s, want %s", out, data)
	}
}

func TestRecordJSONRejectsNested(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"meta":{"a":1}}`), &r); err == nil {
		t.Error("expected error for nested object")
	}
}
