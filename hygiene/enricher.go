package hygiene

import (
	"sort"

	"crmhygiene/record"
)

// Enrich дополняет запись значениями из внешнего источника и возвращает
// новую запись, не изменяя исходную. Заполняются только отсутствующие или
// пустые поля, присутствующее непустое значение никогда не перезаписывается
// и ни одно поле не удаляется. Ключи источника обходятся в отсортированном
// порядке, чтобы порядок добавленных полей был детерминированным.
func Enrich(rec *record.Record, source map[string]record.Value) *record.Record {
	enriched := rec.Clone()

	keys := make([]string, 0, len(source))
	for k := range source {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if enriched.Missing(k) {
			enriched.Set(k, source[k])
		}
	}

	return enriched
}
