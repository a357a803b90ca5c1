package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Хорошо известные поля CRM-записи. Логика пайплайна обращается к полям
// только через эти константы, неизвестные поля проходят без изменений.
const (
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldAmount       = "amount"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldLastActivity = "last_activity"
	FieldCloseDate    = "close_date"
	FieldOwner        = "owner"
	FieldStage        = "stage"
	FieldIndustry     = "industry"
	FieldCompanySize  = "company_size"
	FieldAccountID    = "account_id"
	FieldLeadSource   = "lead_source"

	// FieldNormalized производный флаг, устанавливается после нормализации записи
	FieldNormalized = "normalized"
)

// Kind тип скалярного значения поля
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value скалярное значение поля записи с явным тегом типа.
// Схема не фиксирована: одно и то же поле в разных записях может иметь
// разные типы, поэтому значение несет тег вместо interface{}.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Empty возвращает отсутствующее/пустое значение
func Empty() Value {
	return Value{kind: KindEmpty}
}

// String создает строковое значение
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number создает числовое значение
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool создает булево значение
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind возвращает тег типа значения
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero сообщает, является ли значение "пустым" для проверок гигиены:
// отсутствующее значение, пустая строка, ноль или false.
// Граница ингестии не различает отсутствие поля и пустое значение.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindString:
		return v.str == ""
	case KindNumber:
		return v.num == 0
	case KindBool:
		return !v.b
	default:
		return true
	}
}

// Text возвращает строковое представление значения.
// Отсутствующее значение дает пустую строку.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Float пытается интерпретировать значение как число.
// Строки парсятся через strconv, как это делает граница ингестии.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// True сообщает, является ли значение истинным булевым флагом
func (v Value) True() bool {
	return v.kind == KindBool && v.b
}

// Record одна запись CRM под аудитом: упорядоченное отображение
// имени поля в скалярное значение. Порядок полей сохраняется
// от ингестии до выдачи результата.
type Record struct {
	keys   []string
	values map[string]Value
}

// Batch упорядоченная последовательность записей одного прогона аудита.
// Индексы стабильны на время прогона и используются для отчета о дублях.
type Batch []*Record

// New создает пустую запись
func New() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set устанавливает значение поля, сохраняя порядок первого появления
func (r *Record) Set(field string, v Value) {
	if _, ok := r.values[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.values[field] = v
}

// SetString устанавливает строковое значение поля
func (r *Record) SetString(field, s string) {
	r.Set(field, String(s))
}

// SetNumber устанавливает числовое значение поля
func (r *Record) SetNumber(field string, f float64) {
	r.Set(field, Number(f))
}

// Get возвращает значение поля и признак его присутствия в записи
func (r *Record) Get(field string) (Value, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Has сообщает, присутствует ли поле в записи (в том числе с пустым значением)
func (r *Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

// Missing сообщает, отсутствует ли поле или содержит пустое значение
func (r *Record) Missing(field string) bool {
	v, ok := r.values[field]
	return !ok || v.IsZero()
}

// Text возвращает строковое представление поля, пустую строку для отсутствующего
func (r *Record) Text(field string) string {
	return r.values[field].Text()
}

// Fields возвращает имена полей в порядке их появления
func (r *Record) Fields() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len возвращает количество полей записи
func (r *Record) Len() int {
	return len(r.keys)
}

// Clone возвращает независимую копию записи
func (r *Record) Clone() *Record {
	c := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON сериализует запись как JSON-объект в порядке полей
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v := r.values[k]
		switch v.kind {
		case KindString:
			s, err := json.Marshal(v.str)
			if err != nil {
				return nil, err
			}
			buf.Write(s)
		case KindNumber:
			buf.WriteString(strconv.FormatFloat(v.num, 'f', -1, 64))
		case KindBool:
			buf.WriteString(strconv.FormatBool(v.b))
		default:
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON разбирает JSON-объект, сохраняя порядок полей.
// Стандартный map порядок теряет, поэтому объект читается потоково.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: ожидается JSON-объект")
	}

	r.keys = nil
	r.values = make(map[string]Value)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: некорректный ключ поля")
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch val := valTok.(type) {
		case string:
			r.Set(key, String(val))
		case json.Number:
			f, err := val.Float64()
			if err != nil {
				return fmt.Errorf("record: поле %q: %w", key, err)
			}
			r.Set(key, Number(f))
		case bool:
			r.Set(key, Bool(val))
		case nil:
			r.Set(key, Empty())
		default:
			return fmt.Errorf("record: поле %q: вложенные значения не поддерживаются", key)
		}
	}

	// Закрывающая скобка объекта
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
