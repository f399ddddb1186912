package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	bookingserrors "ticketbooking/internal/bookings/errors"
	"ticketbooking/internal/bookings/validator"
	hotelserrors "ticketbooking/internal/hotels/errors"
	"ticketbooking/pkg/config"
	mongotx "ticketbooking/pkg/db/mongo"
	apperrors "ticketbooking/pkg/errors"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	hotelID   = "65f000000000000000000001"
	bookingID = "65f0000000000000000000b1"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	bookings    map[string]*model.Booking
	overlapping []*model.Booking
	created     []*model.Booking
	statusCalls []string
	updateErr   error
	txCalls     int
}

func newMockBookingRepository(bookings ...*model.Booking) *mockBookingRepository {
	m := &mockBookingRepository{bookings: make(map[string]*model.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = bookingID
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if len(id) != 24 {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	return m.overlapping, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, hotelID, roomNumber string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	if !mongotx.InTransaction(ctx) {
		return nil, errors.New("overlap check must run inside the transaction")
	}
	return m.overlapping, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusCalls = append(m.statusCalls, from+"->"+to)
	m.bookings[id].Status = to
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txCalls++
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLockRepository struct {
	held     bool
	busyFor  int
	attempts int
	acquired []string
	released []string
}

func (m *mockLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	m.attempts++
	if m.held || m.attempts <= m.busyFor {
		return fmt.Errorf("%w: %s", bookingserrors.ErrLockHeld, lockID)
	}
	m.acquired = append(m.acquired, lockID)
	return nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID string) error {
	m.released = append(m.released, lockID)
	return nil
}

type mockHotelRepository struct {
	hotel        *model.Hotel
	attached     []string
	detached     []string
	availability map[string]bool
	availErr     error
}

func (m *mockHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error { return nil }

func (m *mockHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	if m.hotel == nil || m.hotel.ID != id {
		return nil, fmt.Errorf("%w: %s", hotelserrors.ErrNotFound, id)
	}
	return m.hotel, nil
}

func (m *mockHotelRepository) FindAll(ctx context.Context, filter model.HotelFilter, limit int, offset int64) ([]*model.Hotel, error) {
	return nil, nil
}

func (m *mockHotelRepository) Count(ctx context.Context, filter model.HotelFilter) (int64, error) {
	return 0, nil
}

func (m *mockHotelRepository) FindSummaries(ctx context.Context, ids []string) (map[string]model.HotelSummary, error) {
	out := make(map[string]model.HotelSummary)
	if m.hotel != nil {
		for _, id := range ids {
			if id == m.hotel.ID {
				out[id] = m.hotel.Summary()
			}
		}
	}
	return out, nil
}

func (m *mockHotelRepository) AttachBooking(ctx context.Context, hotelID, roomNumber, bookingID string) error {
	m.attached = append(m.attached, roomNumber+"/"+bookingID)
	return nil
}

func (m *mockHotelRepository) DetachBooking(ctx context.Context, hotelID, bookingID string) error {
	m.detached = append(m.detached, bookingID)
	return nil
}

func (m *mockHotelRepository) SetRoomAvailability(ctx context.Context, hotelID, roomNumber string, available bool) error {
	if m.availErr != nil {
		return m.availErr
	}
	if m.availability == nil {
		m.availability = make(map[string]bool)
	}
	m.availability[roomNumber] = available
	return nil
}

type mockUserRepository struct {
	users map[string]*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	return m.users, nil
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) {
	p.events = append(p.events, eventType+":"+booking.ID)
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	repo      *mockBookingRepository
	locks     *mockLockRepository
	hotels    *mockHotelRepository
	users     *mockUserRepository
	publisher *recordingPublisher
	cfg       *config.Config
	service   BookingService
}

func newFixture(bookings ...*model.Booking) *fixture {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	cfg := &config.Config{Log: log, BookingLockTTL: 10 * time.Second, WriteTimeout: time.Second}

	f := &fixture{
		repo:  newMockBookingRepository(bookings...),
		locks: &mockLockRepository{},
		hotels: &mockHotelRepository{hotel: &model.Hotel{
			ID:        hotelID,
			Name:      "Seaside Inn",
			City:      "Nice",
			BasePrice: 90,
			Rooms: []model.Room{
				{Number: "101", Type: "double", Price: 120, IsAvailable: true},
				{Number: "102", Type: "single", IsAvailable: true},
			},
		}},
		users:     &mockUserRepository{users: map[string]*model.User{}},
		publisher: &recordingPublisher{},
		cfg:       cfg,
	}
	f.service = NewBookingService(f.repo, f.locks, f.hotels, f.users, validator.NewBookingValidator(log), f.publisher, cfg)
	return f
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return apperrors.AsAppError(err).StatusCode()
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(validation.DateLayout)
}

var customer = &model.User{ID: "65f0000000000000000000c1", Username: "maria", Role: model.RoleCustomer}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	booking, err := f.service.Create(context.Background(), customer, &model.BookingRequest{
		HotelID:       hotelID,
		RoomNumber:    " 101 ",
		CheckIn:       futureDate(10),
		CheckOut:      futureDate(13),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", booking.Status)
	}
	if booking.Nights != 3 || booking.NightlyRate != 120 || booking.TotalPrice != 360 {
		t.Errorf("pricing = %d x %v = %v", booking.Nights, booking.NightlyRate, booking.TotalPrice)
	}
	if booking.Payment.Paid || booking.Payment.Method != "card" {
		t.Errorf("payment = %+v", booking.Payment)
	}
	if booking.Room.Number != "101" || booking.Room.Type != "double" {
		t.Errorf("room snapshot = %+v", booking.Room)
	}
	if len(f.hotels.attached) != 1 || f.hotels.attached[0] != "101/"+bookingID {
		t.Errorf("attached = %v", f.hotels.attached)
	}
	if len(f.locks.acquired) != 1 || len(f.locks.released) != 1 {
		t.Errorf("lock acquired %v released %v", f.locks.acquired, f.locks.released)
	}
	if f.locks.acquired[0] != "booking_lock_"+hotelID+"_101" {
		t.Errorf("lock id = %s", f.locks.acquired[0])
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0] != model.BookingEventCreated+":"+bookingID {
		t.Errorf("events = %v", f.publisher.events)
	}
}

func TestCreate_BasePriceFallback(t *testing.T) {
	f := newFixture()

	booking, err := f.service.Create(context.Background(), customer, &model.BookingRequest{
		HotelID:    hotelID,
		RoomNumber: "102",
		CheckIn:    futureDate(1),
		CheckOut:   futureDate(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.NightlyRate != 90 || booking.TotalPrice != 180 {
		t.Errorf("rate %v total %v", booking.NightlyRate, booking.TotalPrice)
	}
}

func TestCreate_WaitsForBusyRoomLock(t *testing.T) {
	f := newFixture()
	f.cfg.BookingLockWait = time.Second
	f.locks.busyFor = 2

	req := &model.BookingRequest{HotelID: hotelID, RoomNumber: "101", CheckIn: futureDate(20), CheckOut: futureDate(21)}
	booking, err := f.service.Create(context.Background(), customer, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ID == "" || f.locks.attempts != 3 {
		t.Errorf("booking %+v after %d lock attempts", booking, f.locks.attempts)
	}
	if len(f.locks.released) != 1 {
		t.Errorf("lock released %v", f.locks.released)
	}
}

func TestCreate_RoomLockWaitExpires(t *testing.T) {
	f := newFixture()
	f.cfg.BookingLockWait = 60 * time.Millisecond
	f.locks.held = true

	req := &model.BookingRequest{HotelID: hotelID, RoomNumber: "101", CheckIn: futureDate(20), CheckOut: futureDate(21)}
	start := time.Now()
	_, err := f.service.Create(context.Background(), customer, req)
	if got := statusOf(err); got != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (err %v)", got, err)
	}
	if f.locks.attempts < 2 {
		t.Errorf("expected retries, got %d attempts", f.locks.attempts)
	}
	if elapsed := time.Since(start); elapsed < f.cfg.BookingLockWait {
		t.Errorf("gave up after %v, before the configured wait", elapsed)
	}
	if len(f.repo.created) != 0 {
		t.Error("no booking should be stored")
	}
}

func TestCreate_Errors(t *testing.T) {
	valid := func() *model.BookingRequest {
		return &model.BookingRequest{HotelID: hotelID, RoomNumber: "101", CheckIn: futureDate(5), CheckOut: futureDate(7)}
	}

	tests := []struct {
		name       string
		mutate     func(*model.BookingRequest)
		setup      func(*fixture)
		wantStatus int
		wantLock   bool
	}{
		{name: "missing hotel id", mutate: func(r *model.BookingRequest) { r.HotelID = "" }, wantStatus: http.StatusBadRequest},
		{name: "invalid hotel id", mutate: func(r *model.BookingRequest) { r.HotelID = "nope" }, wantStatus: http.StatusBadRequest},
		{name: "bad date", mutate: func(r *model.BookingRequest) { r.CheckIn = "31/12/2030" }, wantStatus: http.StatusBadRequest},
		{name: "check out before check in", mutate: func(r *model.BookingRequest) { r.CheckOut = futureDate(4) }, wantStatus: http.StatusBadRequest},
		{name: "same day", mutate: func(r *model.BookingRequest) { r.CheckOut = r.CheckIn }, wantStatus: http.StatusBadRequest},
		{name: "in the past", mutate: func(r *model.BookingRequest) { r.CheckIn = futureDate(-3) }, wantStatus: http.StatusBadRequest},
		{name: "unknown payment method", mutate: func(r *model.BookingRequest) { r.PaymentMethod = "barter" }, wantStatus: http.StatusBadRequest},
		{name: "hotel not found", mutate: func(r *model.BookingRequest) { r.HotelID = "65f000000000000000000999" }, wantStatus: http.StatusNotFound},
		{name: "room not found", mutate: func(r *model.BookingRequest) { r.RoomNumber = "999" }, wantStatus: http.StatusNotFound},
		{name: "lock held", setup: func(f *fixture) { f.locks.held = true }, wantStatus: http.StatusConflict},
		{
			name: "overlapping stay",
			setup: func(f *fixture) {
				f.repo.overlapping = []*model.Booking{{ID: "65f0000000000000000000b9", Status: model.BookingStatusConfirmed}}
			},
			wantStatus: http.StatusConflict,
			wantLock:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			req := valid()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			_, err := f.service.Create(context.Background(), customer, req)
			if got := statusOf(err); got != tt.wantStatus {
				t.Fatalf("status = %d, want %d (err %v)", got, tt.wantStatus, err)
			}
			if len(f.repo.created) != 0 {
				t.Error("no booking should be stored")
			}
			if len(f.publisher.events) != 0 {
				t.Errorf("unexpected events %v", f.publisher.events)
			}
			if tt.wantLock && len(f.locks.released) != len(f.locks.acquired) {
				t.Errorf("lock leaked: acquired %v released %v", f.locks.acquired, f.locks.released)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Transitions
// ────────────────────────────────────────────────

func booked(status string) *model.Booking {
	return &model.Booking{
		ID:      bookingID,
		UserID:  customer.ID,
		HotelID: hotelID,
		Room:    model.RoomSnapshot{Number: "101", Type: "double", Price: 120},
		Status:  status,
	}
}

func TestCheckInCheckOut(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		checkOut      bool
		id            string
		wantStatus    int
		wantAfter     string
		wantAvailable bool
	}{
		{name: "check in confirmed", status: model.BookingStatusConfirmed, wantStatus: http.StatusOK, wantAfter: model.BookingStatusCheckedIn, wantAvailable: false},
		{name: "check in pending", status: model.BookingStatusPending, wantStatus: http.StatusConflict},
		{name: "check in cancelled", status: model.BookingStatusCancelled, wantStatus: http.StatusConflict},
		{name: "check in twice", status: model.BookingStatusCheckedIn, wantStatus: http.StatusConflict},
		{name: "check out checked in", status: model.BookingStatusCheckedIn, checkOut: true, wantStatus: http.StatusOK, wantAfter: model.BookingStatusCompleted, wantAvailable: true},
		{name: "check out confirmed", status: model.BookingStatusConfirmed, checkOut: true, wantStatus: http.StatusConflict},
		{name: "check out completed", status: model.BookingStatusCompleted, checkOut: true, wantStatus: http.StatusConflict},
		{name: "missing booking", status: model.BookingStatusConfirmed, id: "65f0000000000000000000ff", wantStatus: http.StatusNotFound},
		{name: "invalid id", status: model.BookingStatusConfirmed, id: "bad", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(booked(tt.status))
			id := bookingID
			if tt.id != "" {
				id = tt.id
			}

			var (
				booking *model.Booking
				err     error
			)
			if tt.checkOut {
				booking, err = f.service.CheckOut(context.Background(), id)
			} else {
				booking, err = f.service.CheckIn(context.Background(), id)
			}

			if got := statusOf(err); got != tt.wantStatus {
				t.Fatalf("status = %d, want %d (err %v)", got, tt.wantStatus, err)
			}
			if tt.wantStatus == http.StatusConflict {
				if details := apperrors.AsAppError(err).Details; details["status"] != tt.status {
					t.Errorf("details = %v, want current status %s", details, tt.status)
				}
			}
			if tt.wantStatus != http.StatusOK {
				if len(f.repo.statusCalls) != 0 || f.hotels.availability != nil {
					t.Error("nothing should change on a rejected transition")
				}
				return
			}

			if booking.Status != tt.wantAfter {
				t.Errorf("status = %s, want %s", booking.Status, tt.wantAfter)
			}
			if got, ok := f.hotels.availability["101"]; !ok || got != tt.wantAvailable {
				t.Errorf("room availability = %v (set %v), want %v", got, ok, tt.wantAvailable)
			}
			if len(f.publisher.events) != 1 {
				t.Errorf("events = %v", f.publisher.events)
			}
		})
	}
}

func TestCheckIn_RoomRemoved(t *testing.T) {
	f := newFixture(booked(model.BookingStatusConfirmed))
	f.hotels.availErr = fmt.Errorf("%w: 101", hotelserrors.ErrRoomNotFound)

	_, err := f.service.CheckIn(context.Background(), bookingID)
	if statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCheckIn_ConcurrentTransition(t *testing.T) {
	f := newFixture(booked(model.BookingStatusConfirmed))
	f.repo.updateErr = fmt.Errorf("%w: %s", bookingserrors.ErrStatusChanged, bookingID)

	_, err := f.service.CheckIn(context.Background(), bookingID)
	if statusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	manager := &model.User{ID: "65f0000000000000000000a1", Role: model.RoleManager}
	stranger := &model.User{ID: "65f0000000000000000000c2", Role: model.RoleCustomer}

	tests := []struct {
		name          string
		user          *model.User
		status        string
		wantStatus    int
		wantAvailable bool
	}{
		{name: "owner cancels confirmed", user: customer, status: model.BookingStatusConfirmed, wantStatus: http.StatusOK},
		{name: "owner cancels pending", user: customer, status: model.BookingStatusPending, wantStatus: http.StatusOK},
		{name: "manager cancels checked in", user: manager, status: model.BookingStatusCheckedIn, wantStatus: http.StatusOK, wantAvailable: true},
		{name: "stranger", user: stranger, status: model.BookingStatusConfirmed, wantStatus: http.StatusForbidden},
		{name: "already cancelled", user: customer, status: model.BookingStatusCancelled, wantStatus: http.StatusConflict},
		{name: "completed", user: customer, status: model.BookingStatusCompleted, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(booked(tt.status))

			booking, err := f.service.Cancel(context.Background(), tt.user, bookingID)
			if got := statusOf(err); got != tt.wantStatus {
				t.Fatalf("status = %d, want %d (err %v)", got, tt.wantStatus, err)
			}
			if tt.wantStatus != http.StatusOK {
				if len(f.hotels.detached) != 0 {
					t.Error("refs must stay attached on failure")
				}
				return
			}

			if booking.Status != model.BookingStatusCancelled {
				t.Errorf("status = %s", booking.Status)
			}
			if len(f.hotels.detached) != 1 || f.hotels.detached[0] != bookingID {
				t.Errorf("detached = %v", f.hotels.detached)
			}
			_, touched := f.hotels.availability["101"]
			if touched != tt.wantAvailable {
				t.Errorf("availability touched = %v, want %v", touched, tt.wantAvailable)
			}
			if len(f.publisher.events) != 1 || f.publisher.events[0] != model.BookingEventCancelled+":"+bookingID {
				t.Errorf("events = %v", f.publisher.events)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Listings
// ────────────────────────────────────────────────

func TestListForUser_HotelSummaries(t *testing.T) {
	orphan := booked(model.BookingStatusConfirmed)
	orphan.ID = "65f0000000000000000000b2"
	orphan.HotelID = "65f000000000000000000777"
	f := newFixture(booked(model.BookingStatusConfirmed), orphan)

	views, err := f.service.ListForUser(context.Background(), customer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views", len(views))
	}
	for _, v := range views {
		switch v.ID {
		case bookingID:
			if v.Hotel.Name != "Seaside Inn" || v.RoomNumber != "101" {
				t.Errorf("view = %+v", v)
			}
		case orphan.ID:
			if v.Hotel.ID != orphan.HotelID || v.Hotel.Name != "" {
				t.Errorf("missing hotel should fall back to id only, got %+v", v.Hotel)
			}
		}
	}
}

func TestListForManager_GroupsByHotel(t *testing.T) {
	f := newFixture()
	otherHotel := "65f000000000000000000002"
	f.repo.overlapping = []*model.Booking{
		{ID: "b3", HotelID: hotelID, UserID: "u1"},
		{ID: "b2", HotelID: otherHotel, UserID: "u2"},
		{ID: "b1", HotelID: hotelID, UserID: "u2"},
	}
	f.users.users = map[string]*model.User{
		"u1": {ID: "u1", Username: "maria", Email: "maria@example.com"},
	}

	resp, err := f.service.ListForManager(context.Background(), model.BookingFilter{Status: model.BookingStatusConfirmed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Count != 3 || len(resp.Grouped) != 2 {
		t.Fatalf("count %d groups %d", resp.Count, len(resp.Grouped))
	}
	first := resp.Grouped[0]
	if first.Hotel.ID != hotelID || first.Hotel.Name != "Seaside Inn" || len(first.Bookings) != 2 {
		t.Errorf("first group = %+v", first)
	}
	if first.Bookings[0].ID != "b3" || first.Bookings[1].ID != "b1" {
		t.Errorf("order within group not kept")
	}
	if first.Bookings[0].User.Username != "maria" || first.Bookings[0].User.Email != "maria@example.com" {
		t.Errorf("user = %+v", first.Bookings[0].User)
	}
	if first.Bookings[1].User.ID != "u2" || first.Bookings[1].User.Username != "" {
		t.Errorf("unknown user should keep id only, got %+v", first.Bookings[1].User)
	}
	if resp.Grouped[1].Hotel.ID != otherHotel {
		t.Errorf("second group = %+v", resp.Grouped[1].Hotel)
	}
}

func TestListForManager_InvalidFilter(t *testing.T) {
	f := newFixture()

	tests := []model.BookingFilter{
		{Status: "archived"},
		{HotelID: "nope"},
	}
	for _, filter := range tests {
		_, err := f.service.ListForManager(context.Background(), filter)
		if statusOf(err) != http.StatusBadRequest {
			t.Errorf("filter %+v: expected 400, got %v", filter, err)
		}
	}
}
