package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"gym_club_backend/internal/config"
	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentNow = time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

type paymentFixture struct {
	svc      *paymentService
	payments *stubPaymentRepo
	members  *stubMemberRepo
	mock     sqlmock.Sqlmock
}

func newPaymentFixture(t *testing.T, payments ...*models.Payment) *paymentFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	members := newStubMemberRepo(&models.Member{ID: 1, UserID: 10, User: &models.UserSummary{ID: 10, Name: "Dewi"}})
	membership := newTestMembershipService(members, &stubBookingRepo{}, paymentNow)
	membership.db = db
	repo := newStubPaymentRepo(payments...)

	return &paymentFixture{
		svc: &paymentService{
			paymentRepo:      repo,
			memberRepo:       members,
			reportRepo:       &stubReportRepo{daily: []models.DailyRevenue{{Date: "2024-03-09", Total: 150000.004}}},
			membership:       membership,
			catalog:          config.DefaultCatalog(),
			db:               db,
			now:              fixedClock(paymentNow),
			newOrderID:       func(time.Time) string { return "FZ-20240310140000-ABC123" },
			newVANumber:      func(prefix string) string { return prefix + "12345678" },
			newTransactionID: func() string { return "TXN-TEST" },
		},
		payments: repo,
		members:  members,
		mock:     mock,
	}
}

func pendingPayment() *models.Payment {
	deadline := paymentNow.Add(PaymentWindow)
	return &models.Payment{
		ID:             1,
		MemberID:       1,
		OrderID:        "FZ-1",
		Amount:         300000,
		PaymentMethod:  models.PaymentMethodQRIS,
		Status:         models.PaymentStatusPending,
		MembershipPlan: "Premium",
		DurationDays:   30,
		ExpiredAt:      &deadline,
		Member:         &models.UserSummary{ID: 10},
	}
}

func TestMapGatewayStatus(t *testing.T) {
	tests := map[string]models.PaymentStatus{
		"capture":    models.PaymentStatusSuccess,
		"settlement": models.PaymentStatusSuccess,
		"deny":       models.PaymentStatusFailed,
		"cancel":     models.PaymentStatusFailed,
		"expire":     models.PaymentStatusExpired,
		"pending":    models.PaymentStatusProcessing,
		"refund":     models.PaymentStatusRefunded,
		" SUCCESS ":  models.PaymentStatusSuccess,
	}
	for in, want := range tests {
		got, ok := MapGatewayStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := MapGatewayStatus("authorize")
	assert.False(t, ok)
}

func TestCreatePaymentBankTransfer(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreatePayment(10, CreatePaymentRequest{
		PlanID:        1,
		PaymentMethod: models.PaymentMethodBankTransfer,
		PaymentDetail: strPtr("BCA"),
	})
	require.NoError(t, err)

	assert.False(t, checkout.Existing)
	assert.Equal(t, 150000.0, checkout.Subtotal)
	assert.Equal(t, 4000.0, checkout.AdminFee)
	assert.Equal(t, 154000.0, checkout.Total)
	assert.Equal(t, models.PaymentStatusPending, checkout.Payment.Status)
	assert.Equal(t, "Basic", checkout.Payment.MembershipPlan)
	require.NotNil(t, checkout.Payment.VANumber)
	assert.Equal(t, "123412345678", *checkout.Payment.VANumber)
	assert.Equal(t, paymentNow.Add(24*time.Hour), *checkout.Payment.ExpiredAt)
	assert.NotEmpty(t, checkout.Instructions)

	// a live pending payment is handed back instead of a second one
	again, err := f.svc.CreatePayment(10, CreatePaymentRequest{PlanID: 3, PaymentMethod: models.PaymentMethodQRIS})
	require.NoError(t, err)
	assert.True(t, again.Existing)
	assert.Equal(t, checkout.Payment.OrderID, again.Payment.OrderID)
}

func TestCreatePaymentBlockedByProcessingPayment(t *testing.T) {
	processing := pendingPayment()
	processing.Status = models.PaymentStatusProcessing
	f := newPaymentFixture(t, processing)

	_, err := f.svc.CreatePayment(10, CreatePaymentRequest{PlanID: 1, PaymentMethod: models.PaymentMethodQRIS})
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.payments.byOrderID, 1)
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.CreatePayment(10, CreatePaymentRequest{PlanID: 9, PaymentMethod: models.PaymentMethodQRIS})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = f.svc.CreatePayment(10, CreatePaymentRequest{PlanID: 1, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrPaymentMethod)

	_, err = f.svc.CreatePayment(10, CreatePaymentRequest{PlanID: 1, PaymentMethod: models.PaymentMethodBankTransfer})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreatePayment(10, CreatePaymentRequest{PlanID: 1, PaymentMethod: models.PaymentMethodEWallet, PaymentDetail: strPtr("paypal")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePaymentRejectsActiveMember(t *testing.T) {
	f := newPaymentFixture(t)
	expiry := paymentNow.AddDate(0, 0, 5)
	f.members.byID[1].MembershipPlan = strPtr("Basic")
	f.members.byID[1].ExpiryDate = &expiry

	_, err := f.svc.CreatePayment(10, CreatePaymentRequest{PlanID: 2, PaymentMethod: models.PaymentMethodQRIS})
	assert.ErrorIs(t, err, ErrAlreadyActive)
}

func TestSimulateSuccessActivatesMembership(t *testing.T) {
	f := newPaymentFixture(t, pendingPayment())
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	completion, err := f.svc.SimulateCompletion("FZ-1", "success", Actor{UserID: 10, Role: models.RoleMember})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusSuccess, completion.Payment.Status)
	require.NotNil(t, completion.Payment.TransactionID)
	assert.Equal(t, "TXN-TEST", *completion.Payment.TransactionID)
	require.NotNil(t, completion.Membership)
	assert.True(t, completion.Membership.IsActive)
	assert.Equal(t, "Premium", *completion.Membership.MembershipPlan)
	assert.Equal(t, "2024-04-09", *completion.Membership.ExpiryDate)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	_, err = f.svc.SimulateCompletion("FZ-1", "failed", Actor{UserID: 10, Role: models.RoleMember})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

// sqlTransitionRepo sends status transitions through the SQL repository so
// they take part in the service transaction.
type sqlTransitionRepo struct {
	*stubPaymentRepo
	sql repositories.PaymentRepository
}

func (r sqlTransitionRepo) TransitionStatus(executor repositories.SQLExecutor, paymentID int64, from []models.PaymentStatus, next models.PaymentStatus, update repositories.PaymentStatusUpdate) error {
	return r.sql.TransitionStatus(executor, paymentID, from, next, update)
}

func TestPaymentSuccessRollsBackWhenActivationFails(t *testing.T) {
	f := newPaymentFixture(t, pendingPayment())
	f.svc.paymentRepo = sqlTransitionRepo{stubPaymentRepo: f.payments, sql: repositories.NewPaymentRepository(f.svc.db)}
	f.members.updateErr = errors.New("connection reset")

	f.mock.ExpectBegin()
	f.mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $6 AND status = ANY($7)`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectRollback()

	_, err := f.svc.SimulateCompletion("FZ-1", "success", Actor{UserID: 10, Role: models.RoleMember})
	require.Error(t, err)
	for _, kind := range []error{ErrValidation, ErrAuthRequired, ErrForbidden, ErrNotFound, ErrConflict} {
		assert.NotErrorIs(t, err, kind)
	}

	assert.Equal(t, models.PaymentStatusPending, f.payments.byOrderID["FZ-1"].Status)
	assert.Zero(t, f.members.updates)
	assert.Nil(t, f.members.byID[1].MembershipPlan)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSimulateRejectsOtherOutcomesAndStrangers(t *testing.T) {
	f := newPaymentFixture(t, pendingPayment())

	_, err := f.svc.SimulateCompletion("FZ-1", "refund", Actor{UserID: 10, Role: models.RoleMember})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SimulateCompletion("FZ-1", "success", Actor{UserID: 11, Role: models.RoleMember})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestCallbackFailureSkipsMembership(t *testing.T) {
	f := newPaymentFixture(t, pendingPayment())

	completion, err := f.svc.Callback(PaymentCallbackRequest{OrderID: "FZ-1", TransactionStatus: "deny"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, completion.Payment.Status)
	assert.Nil(t, completion.Membership)
	assert.Zero(t, f.members.updates)

	_, err = f.svc.Callback(PaymentCallbackRequest{OrderID: "FZ-1", TransactionStatus: "whatever"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Callback(PaymentCallbackRequest{OrderID: "FZ-404", TransactionStatus: "settlement"})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestProcessingOnlyMovesToSuccessOrFailed(t *testing.T) {
	p := pendingPayment()
	f := newPaymentFixture(t, p)

	_, err := f.svc.Callback(PaymentCallbackRequest{OrderID: "FZ-1", TransactionStatus: "pending"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusProcessing, p.Status)

	_, err = f.svc.Callback(PaymentCallbackRequest{OrderID: "FZ-1", TransactionStatus: "expire"})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestOverduePaymentExpiresOnRead(t *testing.T) {
	p := pendingPayment()
	past := paymentNow.Add(-time.Minute)
	p.ExpiredAt = &past
	f := newPaymentFixture(t, p)

	payment, err := f.svc.GetPaymentStatus("FZ-1", Actor{UserID: 10, Role: models.RoleMember})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, payment.Status)
	assert.Equal(t, []models.PaymentStatus{models.PaymentStatusExpired}, f.payments.transitions)

	_, err = f.svc.SimulateCompletion("FZ-1", "success", Actor{UserID: 1, Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestParseReportFilters(t *testing.T) {
	filters, err := ParseReportFilters(models.ReportRequestParams{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
		Status:    "SUCCESS",
		Plan:      "Premium",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), *filters.StartDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local), *filters.EndDate)
	assert.Equal(t, models.PaymentStatusSuccess, *filters.Status)
	assert.Equal(t, "Premium", *filters.Plan)

	filters, err = ParseReportFilters(models.ReportRequestParams{Status: "all", Plan: "ALL"})
	require.NoError(t, err)
	assert.Nil(t, filters.Status)
	assert.Nil(t, filters.Plan)

	_, err = ParseReportFilters(models.ReportRequestParams{StartDate: "01/03/2024"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseReportFilters(models.ReportRequestParams{Status: "paid"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuildPaymentStatistics(t *testing.T) {
	stats := BuildPaymentStatistics([]models.Payment{
		{Amount: 154000, Status: models.PaymentStatusSuccess, MembershipPlan: "Basic", PaymentMethod: models.PaymentMethodBankTransfer},
		{Amount: 300000, Status: models.PaymentStatusSuccess, MembershipPlan: "Premium", PaymentMethod: models.PaymentMethodQRIS},
		{Amount: 150000, Status: models.PaymentStatusFailed, MembershipPlan: "Basic", PaymentMethod: models.PaymentMethodQRIS},
	})

	assert.Equal(t, 3, stats.TotalPayments)
	assert.Equal(t, 604000.0, stats.TotalAmount)
	assert.Equal(t, 454000.0, stats.SuccessfulAmount)
	assert.Equal(t, 2, stats.StatusCounts["success"])
	assert.Equal(t, 1, stats.StatusCounts["failed"])
	assert.Equal(t, 0, stats.StatusCounts["refunded"])
	assert.Len(t, stats.StatusCounts, len(models.AllPaymentStatuses))
	assert.Equal(t, 2, stats.PlanCounts["Basic"])
	assert.Equal(t, 154000.0, stats.PlanRevenue["Basic"])
	assert.Equal(t, 2, stats.MethodCounts[models.PaymentMethodQRIS])
}

func TestReportRoundsDailyRevenue(t *testing.T) {
	f := newPaymentFixture(t)
	f.payments.listed = []models.Payment{{Amount: 150000, Status: models.PaymentStatusSuccess, MembershipPlan: "Basic"}}

	report, err := f.svc.Report(models.ReportRequestParams{Status: "success"})
	require.NoError(t, err)
	assert.Len(t, report.Payments, 1)
	require.Len(t, report.Statistics.DailyRevenue, 1)
	assert.Equal(t, 150000.0, report.Statistics.DailyRevenue[0].Total)
	require.NotNil(t, f.payments.lastFilters.Status)
	assert.Equal(t, models.PaymentStatusSuccess, *f.payments.lastFilters.Status)
}
