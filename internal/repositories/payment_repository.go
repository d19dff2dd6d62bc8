package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gym_club_backend/internal/models"

	"github.com/lib/pq"
)

// PaymentRepository defines the interface for payment database operations.
type PaymentRepository interface {
	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	FindPaymentByOrderID(orderID string) (*models.Payment, error)
	FindOpenPayment(memberID int64) (*models.Payment, error) // Most recent pending or processing payment
	ListPayments(filters models.PaymentFilters) ([]models.Payment, error)
	// TransitionStatus moves a payment to next only while its current status
	// is one of from. ErrNotFound means another writer got there first.
	TransitionStatus(executor SQLExecutor, paymentID int64, from []models.PaymentStatus, next models.PaymentStatus, update PaymentStatusUpdate) error
}

// PaymentStatusUpdate carries the optional columns stamped alongside a transition.
type PaymentStatusUpdate struct {
	TransactionID *string
	PaidAt        *time.Time
	ExpiredAt     *time.Time
	UpdatedAt     time.Time
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const selectPaymentFields = `
	p.id, p.member_id, p.order_id, p.amount, p.payment_method, p.payment_detail, p.status,
	p.membership_plan, p.duration_days, p.transaction_id, p.va_number,
	p.created_at, p.updated_at, p.paid_at, p.expired_at,
	u.id, u.name, u.email
	FROM payments p
	JOIN members m ON m.id = p.member_id
	JOIN users u ON u.id = m.user_id
`

func scanPaymentRow(row scanner) (*models.Payment, error) {
	var p models.Payment
	var user models.UserSummary
	err := row.Scan(
		&p.ID, &p.MemberID, &p.OrderID, &p.Amount, &p.PaymentMethod, &p.PaymentDetail, &p.Status,
		&p.MembershipPlan, &p.DurationDays, &p.TransactionID, &p.VANumber,
		&p.CreatedAt, &p.UpdatedAt, &p.PaidAt, &p.ExpiredAt,
		&user.ID, &user.Name, &user.Email,
	)
	if err != nil {
		return nil, wrapScanError(err, "scanning payment")
	}
	p.Member = &user
	return &p, nil
}

func (r *paymentRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments
	            (member_id, order_id, amount, payment_method, payment_detail, status, membership_plan,
	             duration_days, va_number, created_at, updated_at, expired_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`
	err := executor.QueryRow(query,
		payment.MemberID, payment.OrderID, payment.Amount, payment.PaymentMethod, payment.PaymentDetail,
		payment.Status, payment.MembershipPlan, payment.DurationDays, payment.VANumber,
		payment.CreatedAt, payment.UpdatedAt, payment.ExpiredAt,
	).Scan(&payment.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating payment")
	}
	return payment.ID, nil
}

func (r *paymentRepository) FindPaymentByOrderID(orderID string) (*models.Payment, error) {
	return scanPaymentRow(r.db.QueryRow("SELECT "+selectPaymentFields+" WHERE p.order_id = $1", orderID))
}

func (r *paymentRepository) FindOpenPayment(memberID int64) (*models.Payment, error) {
	query := "SELECT " + selectPaymentFields + " WHERE p.member_id = $1 AND p.status IN ($2, $3) ORDER BY p.created_at DESC LIMIT 1"
	return scanPaymentRow(r.db.QueryRow(query, memberID, models.PaymentStatusPending, models.PaymentStatusProcessing))
}

func (r *paymentRepository) ListPayments(filters models.PaymentFilters) ([]models.Payment, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectPaymentFields)

	var conditions []string
	var args []interface{}
	if filters.MemberID != nil {
		args = append(args, *filters.MemberID)
		conditions = append(conditions, fmt.Sprintf("p.member_id = $%d", len(args)))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		conditions = append(conditions, fmt.Sprintf("p.created_at >= $%d", len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		conditions = append(conditions, fmt.Sprintf("p.created_at < $%d", len(args)))
	}
	if filters.Status != nil {
		args = append(args, *filters.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filters.Plan != nil {
		args = append(args, *filters.Plan)
		conditions = append(conditions, fmt.Sprintf("p.membership_plan = $%d", len(args)))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.created_at DESC, p.id DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing payments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payments: %v", ErrDatabaseError, err)
	}
	return payments, nil
}

func (r *paymentRepository) TransitionStatus(executor SQLExecutor, paymentID int64, from []models.PaymentStatus, next models.PaymentStatus, update PaymentStatusUpdate) error {
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}

	query := `UPDATE payments
	          SET status = $1,
	              transaction_id = COALESCE($2, transaction_id),
	              paid_at = COALESCE($3, paid_at),
	              expired_at = COALESCE($4, expired_at),
	              updated_at = $5
	          WHERE id = $6 AND status = ANY($7)`
	result, err := executor.Exec(query, next, update.TransactionID, update.PaidAt, update.ExpiredAt,
		update.UpdatedAt, paymentID, pq.Array(allowed))
	if err != nil {
		return fmt.Errorf("%w: updating payment status: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "updating payment status")
}
