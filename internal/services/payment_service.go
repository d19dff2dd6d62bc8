package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gym_club_backend/internal/config"
	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"
	"gym_club_backend/pkg/utils"

	"github.com/google/uuid"
)

// PaymentWindow is how long a pending payment stays payable.
const PaymentWindow = 24 * time.Hour

// RevenueSeriesDays is the length of the daily revenue series in reports.
const RevenueSeriesDays = 30

// CreatePaymentRequest DTO
type CreatePaymentRequest struct {
	PlanID        int     `json:"plan_id" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	PaymentDetail *string `json:"payment_detail"` // bank or wallet code
}

// SimulatePaymentRequest DTO
type SimulatePaymentRequest struct {
	Action string `json:"action" binding:"required"` // success or failed
}

// PaymentCallbackRequest DTO
type PaymentCallbackRequest struct {
	OrderID           string  `json:"order_id" binding:"required"`
	TransactionStatus string  `json:"transaction_status" binding:"required"`
	TransactionID     *string `json:"transaction_id"`
}

// --- PaymentService Interface ---
type PaymentService interface {
	GetPaymentMethods() []config.PaymentMethod
	CreatePayment(userID int64, req CreatePaymentRequest) (*models.PaymentCheckout, error)
	GetPaymentStatus(orderID string, actor Actor) (*models.Payment, error)
	SimulateCompletion(orderID, outcome string, actor Actor) (*models.PaymentCompletion, error)
	Callback(req PaymentCallbackRequest) (*models.PaymentCompletion, error)
	History(userID int64) ([]models.Payment, error)
	ListAll() ([]models.Payment, error)
	Report(params models.ReportRequestParams) (*models.PaymentReport, error)
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	memberRepo  repositories.MemberRepository
	reportRepo  repositories.ReportRepository
	membership  MembershipService
	catalog     *config.Catalog
	db          *sql.DB

	now              func() time.Time
	newOrderID       func(time.Time) string
	newVANumber      func(prefix string) string
	newTransactionID func() string
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(paymentRepo repositories.PaymentRepository, memberRepo repositories.MemberRepository, reportRepo repositories.ReportRepository, membership MembershipService, catalog *config.Catalog, db *sql.DB) PaymentService {
	return &paymentService{
		paymentRepo:      paymentRepo,
		memberRepo:       memberRepo,
		reportRepo:       reportRepo,
		membership:       membership,
		catalog:          catalog,
		db:               db,
		now:              time.Now,
		newOrderID:       generateOrderID,
		newVANumber:      generateVANumber,
		newTransactionID: generateTransactionID,
	}
}

// generateOrderID returns FZ-YYYYMMDDHHMMSS-XXXXXX.
func generateOrderID(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("FZ-%s-%s", at.Format("20060102150405"), suffix)
}

// generateVANumber appends 8 random digits to the bank prefix.
func generateVANumber(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, 10000000+rand.Intn(90000000))
}

func generateTransactionID() string {
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
}

// MapGatewayStatus translates a gateway transaction status into a payment status.
func MapGatewayStatus(gatewayStatus string) (models.PaymentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(gatewayStatus)) {
	case "capture", "settlement", "success":
		return models.PaymentStatusSuccess, true
	case "deny", "cancel", "failed", "failure":
		return models.PaymentStatusFailed, true
	case "expire", "expired":
		return models.PaymentStatusExpired, true
	case "pending":
		return models.PaymentStatusProcessing, true
	case "refund", "refunded":
		return models.PaymentStatusRefunded, true
	default:
		return "", false
	}
}

// sourcesFor lists the statuses from which next may be reached.
func sourcesFor(next models.PaymentStatus) []models.PaymentStatus {
	var from []models.PaymentStatus
	for _, s := range models.AllPaymentStatuses {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

func paymentInstructions(method string, detail *string, vaNumber *string, total float64) []string {
	amount := fmt.Sprintf("Amount: Rp %.0f", total)
	switch method {
	case models.PaymentMethodBankTransfer:
		bank, va := "N/A", ""
		if detail != nil {
			bank = strings.ToUpper(*detail)
		}
		if vaNumber != nil {
			va = *vaNumber
		}
		return []string{
			"Transfer to Virtual Account: " + va,
			"Bank: " + bank,
			amount,
			"Payment is verified automatically within 5 minutes",
			"Payment deadline: 24 hours",
		}
	case models.PaymentMethodEWallet:
		wallet := "your e-wallet"
		if detail != nil {
			wallet = strings.ToUpper(*detail)
		}
		return []string{
			"Open " + wallet + " app",
			"Scan the QR code or enter the transaction number",
			"Confirm the payment. " + amount,
			"Payment is verified automatically",
		}
	case models.PaymentMethodQRIS:
		return []string{
			"Open your e-wallet or mobile banking app",
			"Choose Scan QR / QRIS",
			"Scan the displayed QR code",
			"Confirm the payment. " + amount,
		}
	default:
		return []string{amount}
	}
}

func (s *paymentService) GetPaymentMethods() []config.PaymentMethod {
	return s.catalog.PaymentMethods()
}

// validateMethod checks the method and, where the method has options, the detail code.
func (s *paymentService) validateMethod(methodID string, detail *string) error {
	method, ok := s.catalog.PaymentMethod(methodID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrPaymentMethod, methodID)
	}
	if len(method.Banks) == 0 && len(method.Wallets) == 0 {
		return nil
	}
	if detail == nil {
		if len(method.Banks) > 0 {
			return validationError("payment_detail (bank code) is required for %s", methodID)
		}
		return nil
	}
	for _, b := range method.Banks {
		if b.Code == *detail {
			return nil
		}
	}
	for _, w := range method.Wallets {
		if w.Code == *detail {
			return nil
		}
	}
	return validationError("unknown payment_detail %q for %s", *detail, methodID)
}

func (s *paymentService) checkout(payment *models.Payment, plan models.Plan, existing bool) *models.PaymentCheckout {
	subtotal := utils.RoundMoney(plan.Price)
	return &models.PaymentCheckout{
		Payment:      payment,
		Plan:         plan,
		Subtotal:     subtotal,
		AdminFee:     utils.RoundMoney(payment.Amount - subtotal),
		Total:        payment.Amount,
		Instructions: paymentInstructions(payment.PaymentMethod, payment.PaymentDetail, payment.VANumber, payment.Amount),
		Existing:     existing,
	}
}

// CreatePayment opens a pending payment for a plan. A member may hold only
// one live pending payment; it is returned again instead of creating a new one.
// A payment already processing at the gateway blocks new checkouts.
func (s *paymentService) CreatePayment(userID int64, req CreatePaymentRequest) (*models.PaymentCheckout, error) {
	plan, ok := s.catalog.PlanByID(req.PlanID)
	if !ok {
		return nil, ErrPlanNotFound
	}
	detail := trimmedOrNil(req.PaymentDetail)
	if detail != nil {
		lowered := strings.ToLower(*detail)
		detail = &lowered
	}
	if err := s.validateMethod(req.PaymentMethod, detail); err != nil {
		return nil, err
	}

	member, err := s.membership.MemberForUser(userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if IsMembershipActive(*member, now) {
		return nil, ErrAlreadyActive
	}

	pending, err := s.paymentRepo.FindOpenPayment(member.ID)
	switch {
	case err == nil:
		if err := s.expireIfOverdue(pending); err != nil {
			return nil, err
		}
		if pending.Status == models.PaymentStatusProcessing {
			return nil, ErrPaymentInProgress
		}
		if pending.Status == models.PaymentStatusPending {
			pendingPlan, ok := s.catalog.PlanByName(pending.MembershipPlan)
			if !ok {
				pendingPlan = models.Plan{Name: pending.MembershipPlan, Price: pending.Amount, DurationDays: pending.DurationDays}
			}
			return s.checkout(pending, pendingPlan, true), nil
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to check pending payments: %w", err)
	}

	fee := s.catalog.AdminFee(req.PaymentMethod, derefOr(detail, ""))
	expiresAt := now.Add(PaymentWindow)
	payment := &models.Payment{
		MemberID:       member.ID,
		OrderID:        s.newOrderID(now),
		Amount:         utils.RoundMoney(plan.Price + fee),
		PaymentMethod:  req.PaymentMethod,
		PaymentDetail:  detail,
		Status:         models.PaymentStatusPending,
		MembershipPlan: plan.Name,
		DurationDays:   plan.DurationDays,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiredAt:      &expiresAt,
		Member:         member.User,
	}
	if req.PaymentMethod == models.PaymentMethodBankTransfer && detail != nil {
		va := s.newVANumber(s.catalog.VAPrefix(*detail))
		payment.VANumber = &va
	}

	if _, err := s.paymentRepo.CreatePayment(s.db, payment); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, newKindError(ErrConflict, "could not allocate a unique order id, please retry")
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	utils.LogInfo("Payment created", map[string]interface{}{
		"order_id": payment.OrderID, "member_id": member.ID, "plan": plan.Name, "amount": payment.Amount,
	})
	return s.checkout(payment, plan, false), nil
}

// expireIfOverdue moves an overdue pending payment to expired, in place.
func (s *paymentService) expireIfOverdue(payment *models.Payment) error {
	now := s.now()
	if !payment.IsOverdue(now) {
		return nil
	}
	err := s.paymentRepo.TransitionStatus(s.db, payment.ID, []models.PaymentStatus{models.PaymentStatusPending},
		models.PaymentStatusExpired, repositories.PaymentStatusUpdate{UpdatedAt: now})
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to expire payment: %w", err)
	}
	if err == nil {
		utils.LogInfo("Payment expired", map[string]interface{}{"order_id": payment.OrderID})
		payment.Status = models.PaymentStatusExpired
		payment.UpdatedAt = now
		return nil
	}
	// Moved on concurrently; pick up whatever it is now.
	current, err := s.paymentRepo.FindPaymentByOrderID(payment.OrderID)
	if err != nil {
		return fmt.Errorf("failed to reload payment: %w", err)
	}
	*payment = *current
	return nil
}

func (s *paymentService) getPayment(orderID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByOrderID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// getOwnedPayment hides payments of other members from non-admins.
func (s *paymentService) getOwnedPayment(orderID string, actor Actor) (*models.Payment, error) {
	payment, err := s.getPayment(orderID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return payment, nil
	}
	if payment.Member == nil || payment.Member.ID != actor.UserID {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (s *paymentService) GetPaymentStatus(orderID string, actor Actor) (*models.Payment, error) {
	payment, err := s.getOwnedPayment(orderID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfOverdue(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// SimulateCompletion is the test-mode trigger standing in for the gateway.
func (s *paymentService) SimulateCompletion(orderID, outcome string, actor Actor) (*models.PaymentCompletion, error) {
	next, ok := MapGatewayStatus(outcome)
	if !ok || (next != models.PaymentStatusSuccess && next != models.PaymentStatusFailed) {
		return nil, validationError("action must be success or failed")
	}
	payment, err := s.getOwnedPayment(orderID, actor)
	if err != nil {
		return nil, err
	}
	return s.transition(payment, next, nil)
}

func (s *paymentService) Callback(req PaymentCallbackRequest) (*models.PaymentCompletion, error) {
	next, ok := MapGatewayStatus(req.TransactionStatus)
	if !ok {
		return nil, validationError("unknown transaction_status %q", req.TransactionStatus)
	}
	payment, err := s.getPayment(req.OrderID)
	if err != nil {
		return nil, err
	}
	return s.transition(payment, next, trimmedOrNil(req.TransactionID))
}

// transition applies one state-machine step. Success also activates the
// membership in the same transaction as the payment update.
func (s *paymentService) transition(payment *models.Payment, next models.PaymentStatus, transactionID *string) (*models.PaymentCompletion, error) {
	if err := s.expireIfOverdue(payment); err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: status is %s", ErrAlreadyTerminal, payment.Status)
	}

	now := s.now()
	update := repositories.PaymentStatusUpdate{TransactionID: transactionID, UpdatedAt: now}
	if next != models.PaymentStatusSuccess {
		if err := s.paymentRepo.TransitionStatus(s.db, payment.ID, sourcesFor(next), next, update); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrAlreadyTerminal
			}
			return nil, fmt.Errorf("failed to update payment: %w", err)
		}
		utils.LogInfo("Payment status changed", map[string]interface{}{
			"order_id": payment.OrderID, "from": payment.Status, "to": next,
		})
		updated, err := s.getPayment(payment.OrderID)
		if err != nil {
			return nil, err
		}
		return &models.PaymentCompletion{Payment: updated}, nil
	}

	member, err := s.memberRepo.FindMemberByID(payment.MemberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if update.TransactionID == nil {
		txnID := s.newTransactionID()
		update.TransactionID = &txnID
	}
	update.PaidAt = &now

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.paymentRepo.TransitionStatus(tx, payment.ID, sourcesFor(next), next, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAlreadyTerminal
		}
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	plan := models.Plan{Name: payment.MembershipPlan, DurationDays: payment.DurationDays}
	if _, err := s.membership.ActivateMembership(tx, member, plan, models.ActivationPayment, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment completion: %w", err)
	}
	utils.LogInfo("Payment succeeded", map[string]interface{}{
		"order_id": payment.OrderID, "member_id": member.ID, "transaction_id": *update.TransactionID,
	})

	updated, err := s.getPayment(payment.OrderID)
	if err != nil {
		return nil, err
	}
	completion := &models.PaymentCompletion{Payment: updated}
	if status, err := s.membership.GetMembershipStatus(member.UserID); err == nil {
		completion.Membership = status
	} else {
		utils.LogWarn("Could not load membership after payment", map[string]interface{}{"member_id": member.ID, "error": err.Error()})
	}
	return completion, nil
}

func (s *paymentService) History(userID int64) ([]models.Payment, error) {
	member, err := s.memberRepo.FindMemberByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	payments, err := s.paymentRepo.ListPayments(models.PaymentFilters{MemberID: &member.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	for i := range payments {
		if err := s.expireIfOverdue(&payments[i]); err != nil {
			return nil, err
		}
	}
	return payments, nil
}

func (s *paymentService) ListAll() ([]models.Payment, error) {
	payments, err := s.paymentRepo.ListPayments(models.PaymentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ParseReportFilters converts report query parameters into payment filters.
// The end date is inclusive, so the filter bound is the following midnight.
func ParseReportFilters(params models.ReportRequestParams) (models.PaymentFilters, error) {
	var filters models.PaymentFilters
	if v := strings.TrimSpace(params.StartDate); v != "" {
		start, err := time.ParseInLocation(models.DateLayout, v, time.Local)
		if err != nil {
			return filters, validationError("invalid start_date %q, use YYYY-MM-DD", v)
		}
		filters.StartDate = &start
	}
	if v := strings.TrimSpace(params.EndDate); v != "" {
		end, err := time.ParseInLocation(models.DateLayout, v, time.Local)
		if err != nil {
			return filters, validationError("invalid end_date %q, use YYYY-MM-DD", v)
		}
		end = end.AddDate(0, 0, 1)
		filters.EndDate = &end
	}
	if v := strings.ToLower(strings.TrimSpace(params.Status)); v != "" && v != "all" {
		if !models.IsValidPaymentStatus(v) {
			return filters, validationError("invalid status %q", v)
		}
		status := models.PaymentStatus(v)
		filters.Status = &status
	}
	if v := strings.TrimSpace(params.Plan); v != "" && !strings.EqualFold(v, "all") {
		filters.Plan = &v
	}
	return filters, nil
}

// BuildPaymentStatistics aggregates counts and revenue over payments.
// Every known status appears in StatusCounts, even with zero.
func BuildPaymentStatistics(payments []models.Payment) models.PaymentStatistics {
	stats := models.PaymentStatistics{
		TotalPayments: len(payments),
		StatusCounts:  make(map[string]int, len(models.AllPaymentStatuses)),
		PlanCounts:    map[string]int{},
		PlanRevenue:   map[string]float64{},
		MethodCounts:  map[string]int{},
		DailyRevenue:  []models.DailyRevenue{},
	}
	for _, status := range models.AllPaymentStatuses {
		stats.StatusCounts[string(status)] = 0
	}
	for _, p := range payments {
		stats.TotalAmount += p.Amount
		stats.StatusCounts[string(p.Status)]++
		stats.PlanCounts[p.MembershipPlan]++
		if p.PaymentMethod != "" {
			stats.MethodCounts[p.PaymentMethod]++
		}
		if p.Status == models.PaymentStatusSuccess {
			stats.SuccessfulAmount += p.Amount
			stats.PlanRevenue[p.MembershipPlan] += p.Amount
		}
	}
	stats.TotalAmount = utils.RoundMoney(stats.TotalAmount)
	stats.SuccessfulAmount = utils.RoundMoney(stats.SuccessfulAmount)
	for plan, revenue := range stats.PlanRevenue {
		stats.PlanRevenue[plan] = utils.RoundMoney(revenue)
	}
	return stats
}

// Report builds the admin payment report. It never changes payment state.
func (s *paymentService) Report(params models.ReportRequestParams) (*models.PaymentReport, error) {
	filters, err := ParseReportFilters(params)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListPayments(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	stats := BuildPaymentStatistics(payments)

	daily, err := s.reportRepo.DailyRevenue(s.now().AddDate(0, 0, -RevenueSeriesDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load daily revenue: %w", err)
	}
	for i := range daily {
		daily[i].Total = utils.RoundMoney(daily[i].Total)
	}
	stats.DailyRevenue = daily

	return &models.PaymentReport{Payments: payments, Statistics: stats}, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
