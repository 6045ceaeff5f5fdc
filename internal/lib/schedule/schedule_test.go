package schedule

import (
	"testing"
	"time"

	"github.com/magabrotheeeer/subminder/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddInterval_TableTests(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		freq  models.Frequency
		count int
		want  time.Time
	}{
		{
			name:  "weekly single interval",
			start: date(2024, 1, 15),
			freq:  models.FrequencyWeekly,
			count: 1,
			want:  date(2024, 1, 22),
		},
		{
			name:  "weekly across year boundary",
			start: date(2023, 12, 25),
			freq:  models.FrequencyWeekly,
			count: 2,
			want:  date(2024, 1, 8),
		},
		{
			name:  "monthly plain",
			start: date(2024, 1, 15),
			freq:  models.FrequencyMonthly,
			count: 1,
			want:  date(2024, 2, 15),
		},
		{
			name:  "monthly overflow normalizes into march",
			start: date(2024, 1, 31),
			freq:  models.FrequencyMonthly,
			count: 1,
			want:  date(2024, 3, 2), // 2024 високосный: 31 января + месяц = 2 марта
		},
		{
			name:  "yearly over leap day",
			start: date(2024, 2, 29),
			freq:  models.FrequencyYearly,
			count: 1,
			want:  date(2025, 3, 1),
		},
		{
			name:  "yearly several intervals",
			start: date(2020, 6, 1),
			freq:  models.FrequencyYearly,
			count: 4,
			want:  date(2024, 6, 1),
		},
		{
			name:  "once is identity",
			start: date(2024, 1, 15),
			freq:  models.FrequencyOnce,
			count: 5,
			want:  date(2024, 1, 15),
		},
		{
			name:  "zero count",
			start: date(2024, 1, 15),
			freq:  models.FrequencyMonthly,
			count: 0,
			want:  date(2024, 1, 15),
		},
		{
			name:  "truncates time of day",
			start: time.Date(2024, 1, 15, 17, 45, 3, 0, time.UTC),
			freq:  models.FrequencyWeekly,
			count: 1,
			want:  date(2024, 1, 22),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddInterval(tt.start, tt.freq, tt.count)
			if !got.Equal(tt.want) {
				t.Errorf("AddInterval(%v, %s, %d) = %v, want %v",
					tt.start, tt.freq, tt.count, got, tt.want)
			}
		})
	}
}

// Для дней месяца <= 28 сдвиг на a+b интервалов совпадает с двумя
// последовательными сдвигами; на больших днях нормализация AddDate
// делает операцию неассоциативной, поэтому сервис всегда считает от start.
func TestAddInterval_SplitEqualsWhole(t *testing.T) {
	start := date(2023, 11, 28)
	for _, freq := range []models.Frequency{models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly} {
		for a := 0; a <= 5; a++ {
			for b := 0; b <= 5; b++ {
				whole := AddInterval(start, freq, a+b)
				split := AddInterval(AddInterval(start, freq, a), freq, b)
				if !whole.Equal(split) {
					t.Errorf("%s: AddInterval(start, %d+%d) = %v, split = %v", freq, a, b, whole, split)
				}
			}
		}
	}
}

func TestNextPaymentDate_TableTests(t *testing.T) {
	today := date(2024, 6, 10)

	tests := []struct {
		name  string
		start time.Time
		freq  models.Frequency
		want  time.Time
	}{
		{
			name:  "start in the future is returned unchanged",
			start: date(2024, 7, 1),
			freq:  models.FrequencyMonthly,
			want:  date(2024, 7, 1),
		},
		{
			name:  "start today is returned unchanged",
			start: today,
			freq:  models.FrequencyWeekly,
			want:  today,
		},
		{
			name:  "weekly multi-year gap",
			start: date(2020, 1, 6),
			freq:  models.FrequencyWeekly,
			want:  date(2024, 6, 10), // понедельники, 10 июня 2024 тоже понедельник
		},
		{
			name:  "monthly lands after today",
			start: date(2024, 1, 15),
			freq:  models.FrequencyMonthly,
			want:  date(2024, 6, 15),
		},
		{
			name:  "monthly lands exactly today",
			start: date(2023, 12, 10),
			freq:  models.FrequencyMonthly,
			want:  date(2024, 6, 10),
		},
		{
			name:  "yearly gap",
			start: date(2019, 3, 5),
			freq:  models.FrequencyYearly,
			want:  date(2025, 3, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextPaymentDate(tt.start, tt.freq, today)
			if !ok {
				t.Fatalf("NextPaymentDate(%v, %s) returned no occurrence", tt.start, tt.freq)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextPaymentDate(%v, %s) = %v, want %v", tt.start, tt.freq, got, tt.want)
			}
		})
	}
}

func TestNextPaymentDate_Once(t *testing.T) {
	_, ok := NextPaymentDate(date(2020, 1, 1), models.FrequencyOnce, date(2024, 6, 10))
	if ok {
		t.Error("NextPaymentDate for once must report no occurrence")
	}
}

// Ближайшая дата не раньше today и является самой ранней в графике.
func TestNextPaymentDate_EarliestInvariant(t *testing.T) {
	today := date(2024, 6, 10)
	starts := []time.Time{date(2021, 2, 3), date(2023, 12, 31), date(2024, 6, 9)}
	for _, freq := range []models.Frequency{models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly} {
		for _, start := range starts {
			got, ok := NextPaymentDate(start, freq, today)
			if !ok {
				t.Fatalf("no occurrence for %s from %v", freq, start)
			}
			if got.Before(today) {
				t.Errorf("%s from %v: next date %v is before today", freq, start, got)
			}
			if !IsRenewalDue(start, freq, got) {
				t.Errorf("%s from %v: next date %v is not on the schedule", freq, start, got)
			}
			// Между today и got не должно быть другого списания.
			for d := today; d.Before(got); d = d.AddDate(0, 0, 1) {
				if IsRenewalDue(start, freq, d) {
					t.Errorf("%s from %v: earlier occurrence %v exists before %v", freq, start, d, got)
				}
			}
		}
	}
}

func TestIsRenewalDue_TableTests(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		freq   models.Frequency
		target time.Time
		want   bool
	}{
		{
			name:   "monthly exact hit",
			start:  date(2024, 1, 15),
			freq:   models.FrequencyMonthly,
			target: date(2024, 2, 15),
			want:   true,
		},
		{
			name:   "monthly one day off",
			start:  date(2024, 1, 15),
			freq:   models.FrequencyMonthly,
			target: date(2024, 2, 16),
			want:   false,
		},
		{
			name:   "target equals start",
			start:  date(2024, 1, 15),
			freq:   models.FrequencyWeekly,
			target: date(2024, 1, 15),
			want:   true,
		},
		{
			name:   "target before start",
			start:  date(2024, 1, 15),
			freq:   models.FrequencyWeekly,
			target: date(2024, 1, 8),
			want:   false,
		},
		{
			name:   "weekly hit across years",
			start:  date(2022, 5, 2),
			freq:   models.FrequencyWeekly,
			target: date(2024, 4, 29), // 104 недели спустя
			want:   true,
		},
		{
			name:   "weekly miss midweek",
			start:  date(2022, 5, 2),
			freq:   models.FrequencyWeekly,
			target: date(2024, 5, 1),
			want:   false,
		},
		{
			name:   "yearly hit",
			start:  date(2020, 7, 20),
			freq:   models.FrequencyYearly,
			target: date(2026, 7, 20),
			want:   true,
		},
		{
			name:   "once never recurs",
			start:  date(2024, 1, 15),
			freq:   models.FrequencyOnce,
			target: date(2030, 1, 15),
			want:   false,
		},
		{
			name:   "once not due even on its own date",
			start:  date(2024, 1, 15),
			freq:   models.FrequencyOnce,
			target: date(2024, 1, 15),
			want:   false,
		},
		{
			name:   "weekly beyond scan cap",
			start:  date(1990, 1, 1),
			freq:   models.FrequencyWeekly,
			target: date(2030, 1, 7), // больше 1200 недель от начала
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsRenewalDue(tt.start, tt.freq, tt.target)
			if got != tt.want {
				t.Errorf("IsRenewalDue(%v, %s, %v) = %v, want %v",
					tt.start, tt.freq, tt.target, got, tt.want)
			}
		})
	}
}

// IsRenewalDue согласован с прямым перебором последовательности списаний.
func TestIsRenewalDue_AgreesWithWalk(t *testing.T) {
	start := date(2024, 1, 15)
	for _, freq := range []models.Frequency{models.FrequencyWeekly, models.FrequencyMonthly} {
		onSchedule := map[time.Time]bool{}
		for k := 0; k < 40; k++ {
			onSchedule[AddInterval(start, freq, k)] = true
		}
		end := AddInterval(start, freq, 39)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if got := IsRenewalDue(start, freq, d); got != onSchedule[d] {
				t.Errorf("%s: IsRenewalDue(%v) = %v, walk says %v", freq, d, got, onSchedule[d])
			}
		}
	}
}
