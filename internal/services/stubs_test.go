package services

import (
	"time"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"
)

type stubMemberRepo struct {
	byUserID   map[int64]*models.Member
	byID       map[int64]*models.Member
	updateErr  error
	lastPlan   *string
	lastExpiry *time.Time
	updates    int
}

func newStubMemberRepo(members ...*models.Member) *stubMemberRepo {
	r := &stubMemberRepo{byUserID: map[int64]*models.Member{}, byID: map[int64]*models.Member{}}
	for _, m := range members {
		r.byUserID[m.UserID] = m
		r.byID[m.ID] = m
	}
	return r
}

func (r *stubMemberRepo) CreateMember(_ repositories.SQLExecutor, userID int64) (int64, error) {
	m := &models.Member{ID: int64(len(r.byID) + 1), UserID: userID}
	r.byUserID[userID] = m
	r.byID[m.ID] = m
	return m.ID, nil
}

func (r *stubMemberRepo) FindMemberByUserID(userID int64) (*models.Member, error) {
	m, ok := r.byUserID[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *stubMemberRepo) FindMemberByID(memberID int64) (*models.Member, error) {
	m, ok := r.byID[memberID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *stubMemberRepo) ListMembers() ([]models.Member, error) {
	members := make([]models.Member, 0, len(r.byID))
	for _, m := range r.byID {
		members = append(members, *m)
	}
	return members, nil
}

func (r *stubMemberRepo) UpdateMembership(_ repositories.SQLExecutor, memberID int64, plan *string, expiry *time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	m, ok := r.byID[memberID]
	if !ok {
		return repositories.ErrNotFound
	}
	r.updates++
	r.lastPlan = plan
	r.lastExpiry = expiry
	m.MembershipPlan = plan
	m.ExpiryDate = expiry
	return nil
}

type stubBookingRepo struct {
	existing     *models.Booking
	findErr      error
	classCount   int
	monthlyCount int
	created      []*models.Booking
	byID         map[int64]*models.Booking
	list         []models.Booking
	deleted      []int64
}

func (r *stubBookingRepo) CreateBooking(_ repositories.SQLExecutor, booking *models.Booking) (int64, error) {
	booking.ID = int64(100 + len(r.created))
	r.created = append(r.created, booking)
	return booking.ID, nil
}

func (r *stubBookingRepo) GetBookingByID(id int64) (*models.Booking, error) {
	if b, ok := r.byID[id]; ok {
		return b, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *stubBookingRepo) GetBookings(_ models.BookingFilters) ([]models.Booking, error) {
	return r.list, nil
}

func (r *stubBookingRepo) DeleteBooking(_ repositories.SQLExecutor, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubBookingRepo) FindBookingByMemberAndClass(_ repositories.SQLExecutor, _, _ int64) (*models.Booking, error) {
	if r.existing != nil {
		return r.existing, nil
	}
	if r.findErr != nil {
		return nil, r.findErr
	}
	return nil, repositories.ErrNotFound
}

func (r *stubBookingRepo) CountBookingsForClass(_ repositories.SQLExecutor, _ int64) (int, error) {
	return r.classCount, nil
}

func (r *stubBookingRepo) CountMemberBookingsSince(_ int64, _ time.Time) (int, error) {
	return r.monthlyCount, nil
}

func (r *stubBookingRepo) GetClassMembers(_ int64) ([]models.ClassMember, error) {
	return []models.ClassMember{}, nil
}

// stubClassRepo keeps classes in memory and applies the conflict window the
// way the SQL query does.
type stubClassRepo struct {
	classes map[int64]*models.GymClass
	expired []models.CleanedClass
	lockErr error
	nextID  int64
}

func newStubClassRepo(classes ...*models.GymClass) *stubClassRepo {
	r := &stubClassRepo{classes: map[int64]*models.GymClass{}, nextID: 1}
	for _, c := range classes {
		r.classes[c.ID] = c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return r
}

func (r *stubClassRepo) CreateClass(_ repositories.SQLExecutor, class *models.GymClass) (int64, error) {
	class.ID = r.nextID
	r.nextID++
	copied := *class
	r.classes[class.ID] = &copied
	return class.ID, nil
}

func (r *stubClassRepo) FindClassByID(classID int64) (*models.GymClass, error) {
	c, ok := r.classes[classID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *stubClassRepo) ListClasses(_ models.ClassFilters) ([]models.GymClass, error) {
	classes := make([]models.GymClass, 0, len(r.classes))
	for _, c := range r.classes {
		classes = append(classes, *c)
	}
	return classes, nil
}

func (r *stubClassRepo) UpdateClass(_ repositories.SQLExecutor, class *models.GymClass) error {
	if _, ok := r.classes[class.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *class
	r.classes[class.ID] = &copied
	return nil
}

func (r *stubClassRepo) DeleteClass(_ repositories.SQLExecutor, classID int64) error {
	if _, ok := r.classes[classID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.classes, classID)
	return nil
}

func (r *stubClassRepo) FindConflictingClass(trainerID int64, schedule time.Time, window time.Duration, excludeClassID *int64) (*models.GymClass, error) {
	for _, c := range r.classes {
		if c.TrainerID != trainerID || (excludeClassID != nil && c.ID == *excludeClassID) {
			continue
		}
		if !c.Schedule.Before(schedule.Add(-window)) && !c.Schedule.After(schedule.Add(window)) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *stubClassRepo) LockClass(_ repositories.SQLExecutor, classID int64) (int, error) {
	if r.lockErr != nil {
		return 0, r.lockErr
	}
	if c, ok := r.classes[classID]; ok {
		return c.Capacity, nil
	}
	return 0, repositories.ErrNotFound
}

func (r *stubClassRepo) ListExpiredClasses(_ repositories.SQLExecutor, _ int64, _ time.Time) ([]models.CleanedClass, error) {
	return append([]models.CleanedClass{}, r.expired...), nil
}

type stubAttendanceRepo struct {
	absentPerClass int64
	marked         map[int64]bool
}

func (r *stubAttendanceRepo) UpsertAttendance(_ repositories.SQLExecutor, bookingID int64, attended bool, at time.Time) (*models.Attendance, error) {
	if r.marked == nil {
		r.marked = map[int64]bool{}
	}
	r.marked[bookingID] = attended
	return &models.Attendance{ID: 1, BookingID: bookingID, Attended: attended, RecordedAt: at}, nil
}

func (r *stubAttendanceRepo) MarkUnrecordedAbsent(_ repositories.SQLExecutor, _ int64, _ time.Time) (int64, error) {
	return r.absentPerClass, nil
}

type stubPaymentRepo struct {
	byOrderID     map[string]*models.Payment
	transitionErr error
	transitions   []models.PaymentStatus
	listed        []models.Payment
	lastFilters   models.PaymentFilters
}

func newStubPaymentRepo(payments ...*models.Payment) *stubPaymentRepo {
	r := &stubPaymentRepo{byOrderID: map[string]*models.Payment{}}
	for _, p := range payments {
		r.byOrderID[p.OrderID] = p
	}
	return r
}

func (r *stubPaymentRepo) CreatePayment(_ repositories.SQLExecutor, payment *models.Payment) (int64, error) {
	payment.ID = int64(len(r.byOrderID) + 1)
	r.byOrderID[payment.OrderID] = payment
	return payment.ID, nil
}

func (r *stubPaymentRepo) FindPaymentByOrderID(orderID string) (*models.Payment, error) {
	p, ok := r.byOrderID[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *stubPaymentRepo) FindOpenPayment(memberID int64) (*models.Payment, error) {
	for _, p := range r.byOrderID {
		if p.MemberID == memberID && (p.Status == models.PaymentStatusPending || p.Status == models.PaymentStatusProcessing) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *stubPaymentRepo) ListPayments(filters models.PaymentFilters) ([]models.Payment, error) {
	r.lastFilters = filters
	return r.listed, nil
}

func (r *stubPaymentRepo) TransitionStatus(_ repositories.SQLExecutor, paymentID int64, from []models.PaymentStatus, next models.PaymentStatus, update repositories.PaymentStatusUpdate) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}
	for _, p := range r.byOrderID {
		if p.ID != paymentID {
			continue
		}
		for _, s := range from {
			if p.Status == s {
				p.Status = next
				p.TransactionID = update.TransactionID
				p.PaidAt = update.PaidAt
				r.transitions = append(r.transitions, next)
				return nil
			}
		}
	}
	return repositories.ErrNotFound
}

type stubReportRepo struct {
	daily []models.DailyRevenue
}

func (r *stubReportRepo) DailyRevenue(_ time.Time) ([]models.DailyRevenue, error) {
	return r.daily, nil
}

func (r *stubReportRepo) DashboardSummary(_, _ time.Time) (*models.DashboardSummary, error) {
	return &models.DashboardSummary{}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }
