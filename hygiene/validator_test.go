package hygiene

import (
	"reflect"
	"testing"

	"crmhygiene/record"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func() *record.Record
		want  []string
	}{
		{
			name: "all valid",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldEmail, "ivan@example.com")
				r.SetString(record.FieldPhone, "+79991234567")
				r.SetNumber(record.FieldAmount, 1500)
				return r
			},
			want: nil,
		},
		{
			name: "absent fields are not validated",
			build: func() *record.Record {
				return record.New()
			},
			want: nil,
		},
		{
			name: "invalid email",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldEmail, "not-an-email")
				return r
			},
			want: []string{ErrInvalidEmail},
		},
		{
			name: "email without dot in domain",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldEmail, "a@localhost")
				return r
			},
			want: []string{ErrInvalidEmail},
		},
		{
			name: "present but empty email fails shape check",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldEmail, "")
				return r
			},
			want: []string{ErrInvalidEmail},
		},
		{
			name: "phone too short",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldPhone, "+12345")
				return r
			},
			want: []string{ErrInvalidPhone},
		},
		{
			name: "phone with formatting characters",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldPhone, "+7 (999) 123-45-67")
				return r
			},
			want: []string{ErrInvalidPhone},
		},
		{
			name: "phone 16 digits",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldPhone, "1234567890123456")
				return r
			},
			want: []string{ErrInvalidPhone},
		},
		{
			name: "negative amount as string",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldAmount, "-5")
				return r
			},
			want: []string{ErrNegativeAmount},
		},
		{
			name: "negative amount as number",
			build: func() *record.Record {
				r := record.New()
				r.SetNumber(record.FieldAmount, -100)
				return r
			},
			want: []string{ErrNegativeAmount},
		},
		{
			name: "non-numeric amount",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldAmount, "ten")
				return r
			},
			want: []string{ErrInvalidAmount},
		},
		{
			name: "errors keep stable order",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldAmount, "abc")
				r.SetString(record.FieldPhone, "123")
				r.SetString(record.FieldEmail, "bad")
				return r
			},
			want: []string{ErrInvalidEmail, ErrInvalidPhone, ErrInvalidAmount},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.build())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValidateAmountErrorsExclusive проверяет, что ошибка разбора и ошибка
// знака никогда не появляются одновременно для одной записи.
func TestValidateAmountErrorsExclusive(t *testing.T) {
	for _, raw := range []string{"-5", "abc", "", "0", "100", "-0.01"} {
		r := record.New()
		r.SetString(record.FieldAmount, raw)

		errs := Validate(r)
		var hasInvalid, hasNegative bool
		for _, e := range errs {
			if e == ErrInvalidAmount {
				hasInvalid = true
			}
			if e == ErrNegativeAmount {
				hasNegative = true
			}
		}
		if hasInvalid && hasNegative {
			t.Errorf("amount %q: both %q and %q reported", raw, ErrInvalidAmount, ErrNegativeAmount)
		}
	}
}
