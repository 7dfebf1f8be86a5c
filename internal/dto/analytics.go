package dto

// TrendPoint is one month of the spend series, including empty months.
type TrendPoint struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type StatusBreakdown struct {
	Active    int64 `json:"active"`
	Pending   int64 `json:"pending"`
	Cancelled int64 `json:"cancelled"`
	Overdue   int64 `json:"overdue"`
}

// AnalyticsSummaryResponse feeds the spend dashboard.
type AnalyticsSummaryResponse struct {
	MonthToDateSpend string          `json:"month_to_date_spend"`
	Last30DaysSpend  string          `json:"last_30_days_spend"`
	YearToDateSpend  string          `json:"year_to_date_spend"`
	MonthlyRunRate   string          `json:"monthly_run_rate"`
	SpendTrend       []TrendPoint    `json:"spend_trend"`
	TopCategories    []CategoryTotal `json:"top_categories"`
	Statuses         StatusBreakdown `json:"statuses"`
	TotalActive      int64           `json:"total_active"`
}
