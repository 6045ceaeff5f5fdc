// Package money содержит чистые числовые функции приведения цены подписки
// к сопоставимым месячным и годовым величинам, а также округление
// денежных значений на границе ответа.
package money

import (
	"math"

	"github.com/magabrotheeeer/subminder/internal/models"
)

// MonthlyEquivalent приводит цену с заданной периодичностью к месячной величине.
// Разовые траты не входят в регулярные расходы и дают 0.
func MonthlyEquivalent(price float64, freq models.Frequency) float64 {
	switch freq {
	case models.FrequencyWeekly:
		return price * 52 / 12
	case models.FrequencyMonthly:
		return price
	case models.FrequencyYearly:
		return price / 12
	default:
		return 0
	}
}

// AnnualEquivalent приводит цену с заданной периодичностью к годовой величине.
func AnnualEquivalent(price float64, freq models.Frequency) float64 {
	switch freq {
	case models.FrequencyWeekly:
		return price * 52
	case models.FrequencyMonthly:
		return price * 12
	case models.FrequencyYearly:
		return price
	default:
		return 0
	}
}

// Round2 округляет денежную величину до 2 знаков после запятой.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 округляет процент до 1 знака после запятой.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
