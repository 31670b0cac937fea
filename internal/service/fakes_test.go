package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/clock"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
)

// In-memory fakes. Mutation rules mirror the conditional updates the
// SQL store performs, so idempotence behaves the same under test.

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
	seq      int
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	f.seq++
	account.ID = fmt.Sprintf("account-new-%d", f.seq)
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) SetStatus(_ context.Context, id string, status domain.AccountStatus) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.Status = status
	return nil
}

type fakeDriverRepo struct {
	drivers map[string]*domain.Driver
	actions *fakeActionRepo
}

func (f *fakeDriverRepo) GetByID(_ context.Context, id string) (*domain.Driver, error) {
	driver, ok := f.drivers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *driver
	return &copied, nil
}

func (f *fakeDriverRepo) SetLastWarning(_ context.Context, id string, at time.Time) error {
	f.drivers[id].LastWarningAt = &at
	return nil
}

func (f *fakeDriverRepo) ClearLastWarning(_ context.Context, id string) error {
	f.drivers[id].LastWarningAt = nil
	return nil
}

func (f *fakeDriverRepo) SetCurrentSuspension(_ context.Context, id, actionID string) error {
	f.drivers[id].CurrentSuspensionID = &actionID
	return nil
}

func (f *fakeDriverRepo) ListWarningExpired(_ context.Context, now time.Time) ([]string, error) {
	var ids []string
	for id, driver := range f.drivers {
		if driver.LastWarningAt == nil {
			continue
		}
		current := false
		for _, action := range f.actions.list {
			if action.DriverID == id && action.PeriodEnd.After(now) {
				current = true
				break
			}
		}
		if !current {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeActionRepo struct {
	list     []*domain.DisciplinaryAction
	seq      int
	clk      clock.Clock
	accounts *fakeAccountRepo
	drivers  *fakeDriverRepo

	listingsPulled map[string]int
}

func (f *fakeActionRepo) Create(_ context.Context, action *domain.DisciplinaryAction) error {
	f.seq++
	action.ID = fmt.Sprintf("action-%d", f.seq)
	action.CreatedAt = f.clk.Now()
	copied := *action
	f.list = append(f.list, &copied)
	return nil
}

func (f *fakeActionRepo) GetByID(_ context.Context, id string) (*domain.DisciplinaryAction, error) {
	for _, action := range f.list {
		if action.ID == id {
			copied := *action
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeActionRepo) ListByDriver(_ context.Context, driverID string) ([]domain.DisciplinaryAction, error) {
	var result []domain.DisciplinaryAction
	for i := len(f.list) - 1; i >= 0; i-- {
		if f.list[i].DriverID == driverID {
			result = append(result, *f.list[i])
		}
	}
	return result, nil
}

func (f *fakeActionRepo) FindLatestByDriver(_ context.Context, driverID string) (*domain.DisciplinaryAction, error) {
	var latest *domain.DisciplinaryAction
	for _, action := range f.list {
		if action.DriverID != driverID {
			continue
		}
		if latest == nil || !action.PeriodStart.Before(latest.PeriodStart) {
			latest = action
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeActionRepo) FindOpenSanction(_ context.Context, driverID string, periodStart time.Time) (*domain.DisciplinaryAction, error) {
	for i := len(f.list) - 1; i >= 0; i-- {
		action := f.list[i]
		if action.DriverID == driverID &&
			action.PeriodStart.Equal(periodStart) &&
			action.ActionType != domain.SanctionWarning &&
			action.ActualEnd == nil {
			copied := *action
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeActionRepo) FindByTypeAndDuration(_ context.Context, driverID string, actionType domain.SanctionType, days int, periodStart time.Time) (*domain.DisciplinaryAction, error) {
	for i := len(f.list) - 1; i >= 0; i-- {
		action := f.list[i]
		if action.DriverID == driverID &&
			action.ActionType == actionType &&
			action.SuspensionDays != nil && *action.SuspensionDays == days &&
			action.PeriodStart.Equal(periodStart) {
			copied := *action
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeActionRepo) FindPendingUnpaused(_ context.Context, driverID string) (*domain.DisciplinaryAction, error) {
	for i := len(f.list) - 1; i >= 0; i-- {
		action := f.list[i]
		if action.DriverID == driverID &&
			action.ActionType != domain.SanctionWarning &&
			action.ActualStart == nil && action.ActualEnd == nil && !action.IsPaused {
			copied := *action
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeActionRepo) FindPausedByBooking(_ context.Context, driverID, bookingID string) ([]domain.DisciplinaryAction, error) {
	reason := domain.PauseReasonForBooking(bookingID)
	var result []domain.DisciplinaryAction
	for _, action := range f.list {
		if action.DriverID == driverID && action.IsPaused &&
			action.PauseReason != nil && *action.PauseReason == reason &&
			action.ActualEnd == nil {
			result = append(result, *action)
		}
	}
	return result, nil
}

func (f *fakeActionRepo) FindDue(_ context.Context, now time.Time) ([]domain.DisciplinaryAction, error) {
	var result []domain.DisciplinaryAction
	for _, action := range f.list {
		if action.ActionType != domain.SanctionWarning &&
			action.ScheduledStart != nil && !action.ScheduledStart.After(now) &&
			action.ActualStart == nil && action.ActualEnd == nil && !action.IsPaused {
			result = append(result, *action)
		}
	}
	return result, nil
}

func (f *fakeActionRepo) FindExpiring(_ context.Context, now time.Time) ([]domain.DisciplinaryAction, error) {
	var result []domain.DisciplinaryAction
	for _, action := range f.list {
		if action.ActionType == domain.SanctionSuspension &&
			action.ScheduledEnd != nil && !action.ScheduledEnd.After(now) &&
			action.ActualStart != nil && action.ActualEnd == nil {
			result = append(result, *action)
		}
	}
	return result, nil
}

func (f *fakeActionRepo) SetPaused(_ context.Context, actionID, reason string) (bool, error) {
	for _, action := range f.list {
		if action.ID != actionID {
			continue
		}
		if action.ActualStart != nil || action.ActualEnd != nil || action.IsPaused {
			return false, nil
		}
		action.IsPaused = true
		action.PauseReason = &reason
		return true, nil
	}
	return false, nil
}

func (f *fakeActionRepo) ClearPause(_ context.Context, actionID string) error {
	for _, action := range f.list {
		if action.ID == actionID {
			action.IsPaused = false
			action.PauseReason = nil
		}
	}
	return nil
}

func (f *fakeActionRepo) ApplyTx(ctx context.Context, params repository.ApplyParams) (bool, error) {
	for _, action := range f.list {
		if action.ID != params.ActionID {
			continue
		}
		if action.ActualStart != nil || action.ActualEnd != nil {
			return false, nil
		}
		now := params.Now
		action.ActualStart = &now
		action.IsPaused = false
		action.PauseReason = nil
		if err := f.accounts.SetStatus(ctx, params.AccountID, params.AccountStatus); err != nil {
			return false, err
		}
		f.listingsPulled[params.DriverID]++
		return true, nil
	}
	return false, nil
}

func (f *fakeActionRepo) EndTx(ctx context.Context, params repository.EndParams) (bool, error) {
	for _, action := range f.list {
		if action.ID != params.ActionID {
			continue
		}
		if action.ActualEnd != nil {
			return false, nil
		}
		now := params.Now
		action.ActualEnd = &now
		action.IsPaused = false
		action.PauseReason = nil
		if params.RestoreAccount {
			if err := f.accounts.SetStatus(ctx, params.AccountID, domain.AccountStatusActive); err != nil {
				return false, err
			}
		}
		driver := f.drivers.drivers[params.DriverID]
		if driver != nil && driver.CurrentSuspensionID != nil && *driver.CurrentSuspensionID == params.ActionID {
			driver.CurrentSuspensionID = nil
		}
		return true, nil
	}
	return false, nil
}

type fakeDisputeRepo struct {
	disputes []*domain.Dispute
	seq      int
	clk      clock.Clock
}

func (f *fakeDisputeRepo) Create(_ context.Context, dispute *domain.Dispute) error {
	f.seq++
	dispute.ID = fmt.Sprintf("dispute-%d", f.seq)
	dispute.CreatedAt = f.clk.Now()
	copied := *dispute
	f.disputes = append(f.disputes, &copied)
	return nil
}

func (f *fakeDisputeRepo) CountForDriverSince(_ context.Context, driverID string, since time.Time) (int, error) {
	count := 0
	for _, dispute := range f.disputes {
		if dispute.DriverID == driverID && !dispute.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeDisputeRepo) ListByRaiser(_ context.Context, raisedByID string, limit, offset int) ([]domain.Dispute, error) {
	var result []domain.Dispute
	for i := len(f.disputes) - 1; i >= 0; i-- {
		if f.disputes[i].RaisedByID == raisedByID {
			result = append(result, *f.disputes[i])
		}
	}
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

type fakeBookingRepo struct {
	bookings map[string]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) FindInProgressByDriver(_ context.Context, driverID string) (*domain.Booking, error) {
	for _, booking := range f.bookings {
		if booking.DriverID == driverID && booking.Status == domain.BookingStatusInProgress {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) SetStatusIf(_ context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	booking, ok := f.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	return true, nil
}

func (f *fakeBookingRepo) CancelExpiredHolds(_ context.Context, now time.Time) ([]domain.Booking, error) {
	var cancelled []domain.Booking
	for _, booking := range f.bookings {
		if booking.Status == domain.BookingStatusPending &&
			booking.HoldExpiresAt != nil && !booking.HoldExpiresAt.After(now) {
			booking.Status = domain.BookingStatusCancelled
			cancelled = append(cancelled, *booking)
		}
	}
	return cancelled, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(eventType events.EventType) []events.Event {
	var result []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

// engineFixture wires the engine against the in-memory fakes with one
// seeded driver.
type engineFixture struct {
	clk      *clock.Manual
	accounts *fakeAccountRepo
	drivers  *fakeDriverRepo
	actions  *fakeActionRepo
	disputes *fakeDisputeRepo
	bookings *fakeBookingRepo
	events   *recordingDispatcher
	engine   *DisciplineService
}

const (
	testDriverID  = "driver-1"
	testAccountID = "account-1"
	testRenterID  = "renter-1"
)

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	clk := clock.NewManual(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	accounts := &fakeAccountRepo{accounts: map[string]*domain.Account{
		testAccountID: {ID: testAccountID, Email: "driver@example.com", Role: domain.RoleUser, Status: domain.AccountStatusActive},
		testRenterID:  {ID: testRenterID, Email: "renter@example.com", Role: domain.RoleUser, Status: domain.AccountStatusActive},
	}}
	drivers := &fakeDriverRepo{drivers: map[string]*domain.Driver{
		testDriverID: {ID: testDriverID, AccountID: testAccountID, IsVerified: true},
	}}
	actions := &fakeActionRepo{
		clk:            clk,
		accounts:       accounts,
		drivers:        drivers,
		listingsPulled: map[string]int{},
	}
	drivers.actions = actions
	disputes := &fakeDisputeRepo{clk: clk}
	bookings := &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
	dispatcher := &recordingDispatcher{}

	engine := NewDisciplineService(DisciplineDependencies{
		ActionRepo:  actions,
		DriverRepo:  drivers,
		AccountRepo: accounts,
		DisputeRepo: disputes,
		Periods:     NewPeriodTracker(actions, drivers, clk),
		Trips:       NewTripGuard(bookings),
		Dispatcher:  dispatcher,
		Clock:       clk,
		Logger:      zap.NewNop(),
	})

	return &engineFixture{
		clk:      clk,
		accounts: accounts,
		drivers:  drivers,
		actions:  actions,
		disputes: disputes,
		bookings: bookings,
		events:   dispatcher,
		engine:   engine,
	}
}

// raiseDisputes records n disputes and runs the engine after each, the
// way dispute creation triggers it in production.
func (f *engineFixture) raiseDisputes(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := f.disputes.Create(context.Background(), &domain.Dispute{
			BookingID:  "booking-x",
			DriverID:   testDriverID,
			RaisedByID: testRenterID,
			Subject:    "late pickup",
			Status:     domain.DisputeStatusOpen,
		})
		if err != nil {
			t.Fatalf("create dispute: %v", err)
		}
		if _, err := f.engine.OnDispute(context.Background(), testDriverID); err != nil {
			t.Fatalf("on dispute: %v", err)
		}
	}
}

func (f *engineFixture) addBooking(id string, status domain.BookingStatus) {
	f.bookings.bookings[id] = &domain.Booking{
		ID:        id,
		ListingID: "listing-1",
		DriverID:  testDriverID,
		RenterID:  testRenterID,
		Status:    status,
	}
}

func (f *engineFixture) accountStatus(t *testing.T) domain.AccountStatus {
	t.Helper()
	return f.accounts.accounts[testAccountID].Status
}

func (f *engineFixture) latestAction(t *testing.T) *domain.DisciplinaryAction {
	t.Helper()
	if len(f.actions.list) == 0 {
		t.Fatal("no disciplinary actions recorded")
	}
	return f.actions.list[len(f.actions.list)-1]
}
