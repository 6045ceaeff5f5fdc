package money

import (
	"math"
	"testing"

	"github.com/magabrotheeeer/subminder/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		freq  models.Frequency
		want  float64
	}{
		{name: "weekly", price: 12, freq: models.FrequencyWeekly, want: 52},
		{name: "monthly", price: 10, freq: models.FrequencyMonthly, want: 10},
		{name: "yearly", price: 120, freq: models.FrequencyYearly, want: 10},
		{name: "once", price: 99, freq: models.FrequencyOnce, want: 0},
		{name: "zero price", price: 0, freq: models.FrequencyWeekly, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyEquivalent(tt.price, tt.freq)
			if !almostEqual(got, tt.want) {
				t.Errorf("MonthlyEquivalent(%v, %s) = %v, want %v", tt.price, tt.freq, got, tt.want)
			}
		})
	}
}

func TestAnnualEquivalent(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		freq  models.Frequency
		want  float64
	}{
		{name: "weekly", price: 10, freq: models.FrequencyWeekly, want: 520},
		{name: "monthly", price: 10, freq: models.FrequencyMonthly, want: 120},
		{name: "yearly", price: 120, freq: models.FrequencyYearly, want: 120},
		{name: "once", price: 50, freq: models.FrequencyOnce, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnnualEquivalent(tt.price, tt.freq)
			if !almostEqual(got, tt.want) {
				t.Errorf("AnnualEquivalent(%v, %s) = %v, want %v", tt.price, tt.freq, got, tt.want)
			}
		})
	}
}

// Месячный и годовой эквиваленты согласованы: annual == monthly * 12.
func TestEquivalentsConsistent(t *testing.T) {
	for _, freq := range []models.Frequency{models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly, models.FrequencyOnce} {
		price := 37.5
		if !almostEqual(AnnualEquivalent(price, freq), MonthlyEquivalent(price, freq)*12) {
			t.Errorf("%s: annual and monthly equivalents disagree", freq)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 63.333333, want: 63.33},
		{in: 10.006, want: 10.01},
		{in: 0, want: 0},
		{in: 99.999, want: 100},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 50.04, want: 50},
		{in: 33.35, want: 33.4},
		{in: 0, want: 0},
	}
	for _, tt := range tests {
		if got := Round1(tt.in); got != tt.want {
			t.Errorf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
