package models

// Stats — сводка расходов пользователя, вычисляемая на лету.
// Не хранится в базе: всегда выводится из текущих подписок и таблицы курсов.
type Stats struct {
	Summary  StatsSummary  `json:"summary"`
	Insights StatsInsights `json:"insights"`
}

// StatsSummary — суммарные регулярные расходы, приведённые к разным периодам.
// Все денежные поля округлены до 2 знаков, в валюте Currency.
type StatsSummary struct {
	Daily             float64 `json:"daily"`
	Weekly            float64 `json:"weekly"`
	Monthly           float64 `json:"monthly"`
	Yearly            float64 `json:"yearly"`
	TotalOneTimeSpent float64 `json:"totalOneTimeSpent"`
	Currency          string  `json:"currency"`
}

// StatsInsights — производные показатели для дашборда.
type StatsInsights struct {
	HighestRecurringSub *HighestRecurringSub `json:"highestRecurringSub"`
	ProjectedCosts      ProjectedCosts       `json:"projectedCosts"`
	DigitalVsPhysical   DigitalVsPhysical    `json:"digitalVsPhysical"`
	TopCategory         *TopCategory         `json:"topCategory"`
}

// HighestRecurringSub — подписка с наибольшим месячным эквивалентом стоимости.
type HighestRecurringSub struct {
	ServiceName string    `json:"serviceName"`
	Price       float64   `json:"price"` // Цена в валюте отображения
	Currency    string    `json:"currency"`
	Frequency   Frequency `json:"frequency"`
	MonthlyCost float64   `json:"monthlyCost"`
}

// ProjectedCosts — прогноз расходов на ближайший период.
type ProjectedCosts struct {
	Next7Days float64 `json:"next7Days"`
}

// DigitalVsPhysical — доли цифровых и физических подписок в годовых расходах,
// проценты с точностью до 1 знака.
type DigitalVsPhysical struct {
	DigitalPercentage  float64 `json:"digitalPercentage"`
	PhysicalPercentage float64 `json:"physicalPercentage"`
}

// TopCategory — категория с наибольшей годовой стоимостью подписок.
type TopCategory struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}
