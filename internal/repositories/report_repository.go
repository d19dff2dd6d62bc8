package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"gym_club_backend/internal/models"
)

// ReportRepository runs the read-only aggregate queries behind the admin
// dashboard and payment report.
type ReportRepository interface {
	// DailyRevenue sums successful payments per paid_at day from since onwards.
	// Days without revenue are omitted.
	DailyRevenue(since time.Time) ([]models.DailyRevenue, error)
	DashboardSummary(now, monthStart time.Time) (*models.DashboardSummary, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) DailyRevenue(since time.Time) ([]models.DailyRevenue, error) {
	query := `SELECT TO_CHAR(DATE(paid_at), 'YYYY-MM-DD') AS day, COALESCE(SUM(amount), 0)
	          FROM payments
	          WHERE status = $1 AND paid_at >= $2
	          GROUP BY DATE(paid_at)
	          ORDER BY DATE(paid_at)`
	rows, err := r.db.Query(query, models.PaymentStatusSuccess, since)
	if err != nil {
		return nil, fmt.Errorf("%w: querying daily revenue: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	series := []models.DailyRevenue{}
	for rows.Next() {
		var d models.DailyRevenue
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, fmt.Errorf("%w: scanning daily revenue: %v", ErrDatabaseError, err)
		}
		series = append(series, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating daily revenue: %v", ErrDatabaseError, err)
	}
	return series, nil
}

func (r *reportRepository) DashboardSummary(now, monthStart time.Time) (*models.DashboardSummary, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM members),
		(SELECT COUNT(*) FROM members WHERE expiry_date >= $1),
		(SELECT COUNT(*) FROM users WHERE role = 'TRAINER'),
		(SELECT COUNT(*) FROM users WHERE role = 'TRAINER' AND approval_status = 'pending'),
		(SELECT COUNT(*) FROM classes WHERE schedule >= $2),
		(SELECT COUNT(*) FROM bookings WHERE booking_date >= $3),
		(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'success' AND paid_at >= $3),
		(SELECT COUNT(*) FROM payments WHERE status = 'pending')`

	var s models.DashboardSummary
	err := r.db.QueryRow(query, now.Format(models.DateLayout), now, monthStart).Scan(
		&s.TotalMembers, &s.ActiveMembers, &s.TotalTrainers, &s.PendingTrainers,
		&s.UpcomingClasses, &s.BookingsThisMonth, &s.RevenueThisMonth, &s.PendingPayments,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying dashboard summary: %v", ErrDatabaseError, err)
	}
	return &s, nil
}
