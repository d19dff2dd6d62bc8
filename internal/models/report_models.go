package models

// DailyRevenue is the successful-payment revenue for one calendar day.
type DailyRevenue struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// PaymentStatistics aggregates a set of payments.
type PaymentStatistics struct {
	TotalPayments    int                `json:"total_payments"`
	TotalAmount      float64            `json:"total_amount"`
	SuccessfulAmount float64            `json:"successful_amount"`
	StatusCounts     map[string]int     `json:"status_counts"`
	PlanCounts       map[string]int     `json:"plan_counts"`
	PlanRevenue      map[string]float64 `json:"plan_revenue"`
	MethodCounts     map[string]int     `json:"method_counts"`
	DailyRevenue     []DailyRevenue     `json:"daily_revenue"`
}

// PaymentReport is the admin payment report.
type PaymentReport struct {
	Payments   []Payment         `json:"payments"`
	Statistics PaymentStatistics `json:"statistics"`
}

// ReportRequestParams holds the query parameters for the payment report.
type ReportRequestParams struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
	Status    string `form:"status"`     // a payment status or "all"
	Plan      string `form:"plan"`       // a plan name or "all"
}

// DashboardSummary holds key metrics for the admin dashboard.
type DashboardSummary struct {
	TotalMembers      int     `json:"total_members"`
	ActiveMembers     int     `json:"active_members"`
	TotalTrainers     int     `json:"total_trainers"`
	PendingTrainers   int     `json:"pending_trainers"`
	UpcomingClasses   int     `json:"upcoming_classes"`
	BookingsThisMonth int     `json:"bookings_this_month"`
	RevenueThisMonth  float64 `json:"revenue_this_month"`
	PendingPayments   int     `json:"pending_payments"`
}
