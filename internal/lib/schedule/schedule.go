// Package schedule содержит чистую календарную арифметику для графиков списаний:
// сдвиг даты на N интервалов, поиск ближайшей даты платежа и проверку,
// попадает ли списание ровно на заданную дату.
//
// Все функции работают с датами, усечёнными до полуночи UTC, и не выполняют I/O.
package schedule

import (
	"time"

	"github.com/magabrotheeeer/subminder/internal/models"
)

// maxScanSteps ограничивает прямой перебор интервалов в IsRenewalDue.
// 1200 шагов покрывает более 23 лет еженедельных списаний; при превышении
// считаем, что дата не попадает в график.
const maxScanSteps = 1200

// Truncate приводит дату к полуночи UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddInterval возвращает дату, сдвинутую на count целых интервалов частоты freq.
// Для once дата возвращается без изменений.
//
// Переполнение месяца следует правилу time.AddDate: 31 января + 1 месяц
// нормализуется в начало марта, а не усекается до конца февраля.
func AddInterval(date time.Time, freq models.Frequency, count int) time.Time {
	date = Truncate(date)
	switch freq {
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7*count)
	case models.FrequencyMonthly:
		return date.AddDate(0, count, 0)
	case models.FrequencyYearly:
		return date.AddDate(count, 0, 0)
	default:
		return date
	}
}

// NextPaymentDate возвращает первую дату графика, которая не раньше today.
// Второе значение false означает, что у графика нет будущих списаний (частота once).
//
// Число пройденных интервалов оценивается в замкнутой форме, после чего
// выполняется короткий проход вперёд, поэтому многолетний разрыв между
// StartDate и today не приводит к длинному циклу.
func NextPaymentDate(start time.Time, freq models.Frequency, today time.Time) (time.Time, bool) {
	if freq == models.FrequencyOnce {
		return time.Time{}, false
	}
	start = Truncate(start)
	today = Truncate(today)
	if !start.Before(today) {
		return start, true
	}

	var k int
	switch freq {
	case models.FrequencyWeekly:
		days := int(today.Sub(start).Hours() / 24)
		k = days/7 - 1
	case models.FrequencyMonthly:
		k = (today.Year()-start.Year())*12 + int(today.Month()) - int(start.Month()) - 1
	case models.FrequencyYearly:
		k = today.Year() - start.Year() - 1
	}
	if k < 0 {
		k = 0
	}

	next := AddInterval(start, freq, k)
	for next.Before(today) {
		k++
		next = AddInterval(start, freq, k)
	}
	return next, true
}

// IsRenewalDue сообщает, попадает ли какое-либо списание графика ровно на target.
// Для once всегда false; false и при target раньше даты начала.
// Сдвиг всегда считается от start одним вызовом AddInterval, чтобы правило
// нормализации месяца применялось одинаково для любого номера интервала.
func IsRenewalDue(start time.Time, freq models.Frequency, target time.Time) bool {
	if freq == models.FrequencyOnce {
		return false
	}
	start = Truncate(start)
	target = Truncate(target)
	if target.Before(start) {
		return false
	}
	for k := 0; k <= maxScanSteps; k++ {
		occurrence := AddInterval(start, freq, k)
		if occurrence.Equal(target) {
			return true
		}
		if occurrence.After(target) {
			return false
		}
	}
	return false
}
