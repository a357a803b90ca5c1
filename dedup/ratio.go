// Package dedup находит вероятные дубликаты записей в батче по нечеткой
// схожести значений ключевого поля.
package dedup

// Ratio вычисляет нормализованную схожесть двух строк по шкале 0-100.
// Основа - наибольшая общая подпоследовательность: ratio = 200*LCS/(len1+len2),
// что эквивалентно расстоянию редактирования только со вставками и
// удалениями. Идентичные строки дают ровно 100, полностью различные 0.
func Ratio(s1, s2 string) float64 {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	// Две пустые строки идентичны
	if len1 == 0 && len2 == 0 {
		return 100.0
	}
	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	// LCS через динамическое программирование с одним массивом
	column := make([]int, len2+1)
	for i := 1; i <= len1; i++ {
		prevDiag := 0
		for j := 1; j <= len2; j++ {
			oldVal := column[j]
			if r1[i-1] == r2[j-1] {
				column[j] = prevDiag + 1
			} else if column[j-1] > column[j] {
				column[j] = column[j-1]
			}
			prevDiag = oldVal
		}
	}

	lcs := column[len2]
	return 200.0 * float64(lcs) / float64(len1+len2)
}
