package hygiene

import (
	"reflect"
	"testing"

	"crmhygiene/record"
)

func TestCheckRequired(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *record.Record
		required []string
		want     []string
	}{
		{
			name: "all present",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldEmail, "a@b.com")
				r.SetString(record.FieldLeadSource, "web")
				r.SetString(record.FieldCloseDate, "2026-01-01")
				return r
			},
			required: []string{record.FieldEmail, record.FieldLeadSource, record.FieldCloseDate},
			want:     nil,
		},
		{
			name: "absent field",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldEmail, "a@b.com")
				return r
			},
			required: []string{record.FieldEmail, record.FieldLeadSource},
			want:     []string{record.FieldLeadSource},
		},
		{
			name: "empty string counts as missing",
			build: func() *record.Record {
				r := record.New()
				r.SetString(record.FieldEmail, "")
				return r
			},
			required: []string{record.FieldEmail},
			want:     []string{record.FieldEmail},
		},
		{
			name: "zero amount counts as missing",
			build: func() *record.Record {
				r := record.New()
				r.SetNumber(record.FieldAmount, 0)
				return r
			},
			required: []string{record.FieldAmount},
			want:     []string{record.FieldAmount},
		},
		{
			name: "result follows required order",
			build: func() *record.Record {
				return record.New()
			},
			required: []string{record.FieldCloseDate, record.FieldEmail, record.FieldLeadSource},
			want:     []string{record.FieldCloseDate, record.FieldEmail, record.FieldLeadSource},
		},
		{
			name: "empty required list",
			build: func() *record.Record {
				return record.New()
			},
			required: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckRequired(tt.build(), tt.required)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckRequired() = %v, want %v", got, tt.want)
			}
		})
	}
}
