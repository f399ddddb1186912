package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	authrepo "ticketbooking/internal/auth/repository"
	bookingserrors "ticketbooking/internal/bookings/errors"
	"ticketbooking/internal/bookings/events"
	"ticketbooking/internal/bookings/repository"
	"ticketbooking/internal/bookings/validator"
	hotelserrors "ticketbooking/internal/hotels/errors"
	hotelrepo "ticketbooking/internal/hotels/repository"
	"ticketbooking/pkg/config"
	mongotx "ticketbooking/pkg/db/mongo"
	apperrors "ticketbooking/pkg/errors"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/sanitizer"
	"ticketbooking/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName        = "ticketbooking/bookings"
	lockRetryInterval = 25 * time.Millisecond
)

type BookingService interface {
	Create(ctx context.Context, user *model.User, req *model.BookingRequest) (*model.Booking, error)
	ListForUser(ctx context.Context, user *model.User) ([]model.BookingView, error)
	Cancel(ctx context.Context, user *model.User, id string) (*model.Booking, error)
	CheckIn(ctx context.Context, id string) (*model.Booking, error)
	CheckOut(ctx context.Context, id string) (*model.Booking, error)
	ListForManager(ctx context.Context, filter model.BookingFilter) (*model.ManagerBookingsResponse, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.BookingLockRepository
	hotels    hotelrepo.HotelRepository
	users     authrepo.UserRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	tracer    trace.Tracer
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.BookingLockRepository,
	hotels hotelrepo.HotelRepository,
	users authrepo.UserRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		hotels:    hotels,
		users:     users,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		tracer:    otel.Tracer(tracerName),
	}
}

// Create books a room for the caller. The room lock serialises requests for the
// same room; the overlap check and insert share one transaction so a stay can
// never be booked twice.
func (s *bookingService) Create(ctx context.Context, user *model.User, req *model.BookingRequest) (booking *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Create")
	defer func() { endSpan(span, err) }()

	req.HotelID = sanitizer.TrimAndNormalize(req.HotelID)
	req.RoomNumber = sanitizer.NormalizeRoomNumber(req.RoomNumber)

	stay, err := s.validator.ValidateRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user_id", user.ID, "hotel_id", req.HotelID, "error", err)
		return nil, validationError("Booking validation failed", err)
	}
	span.SetAttributes(
		attribute.String("hotel.id", req.HotelID),
		attribute.String("room.number", req.RoomNumber),
	)

	hotel, err := s.hotels.FindByID(ctx, req.HotelID)
	if err != nil {
		return nil, translateHotelError(err, req.HotelID)
	}
	room := hotel.FindRoom(req.RoomNumber)
	if room == nil {
		return nil, apperrors.NotFoundWithID("Room", req.RoomNumber)
	}

	lockID := repository.LockID(hotel.ID, room.Number)
	if err := s.acquireRoomLock(ctx, lockID); err != nil {
		return nil, err
	}

	rate := hotel.NightlyRate(room)
	nights := model.Nights(stay.CheckIn, stay.CheckOut)
	booking = &model.Booking{
		UserID:      user.ID,
		HotelID:     hotel.ID,
		Room:        model.RoomSnapshot{Number: room.Number, Type: room.Type, Price: room.Price},
		CheckIn:     stay.CheckIn,
		CheckOut:    stay.CheckOut,
		NightlyRate: rate,
		Nights:      nights,
		TotalPrice:  model.TotalPrice(rate, nights),
		Status:      model.BookingStatusConfirmed,
		Payment:     model.Payment{Method: req.PaymentMethod},
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// A retried transaction must insert a fresh document.
		booking.ID = ""

		conflicts, err := s.repo.FindOverlapping(sessCtx, hotel.ID, room.Number, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.Conflict("Room is already booked for the selected dates").WithDetails(map[string]any{
				"check_in":  conflicts[0].CheckIn,
				"check_out": conflicts[0].CheckOut,
			})
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return err
		}
		if err := s.hotels.AttachBooking(sessCtx, hotel.ID, room.Number, booking.ID); err != nil {
			if isMissingHotel(err) {
				return translateHotelError(err, hotel.ID)
			}
			return err
		}
		return nil
	})
	s.releaseRoomLock(lockID)
	if err != nil {
		if apperrors.IsAppError(err) {
			s.cfg.Log.Info("Booking rejected", "hotel_id", hotel.ID, "room", room.Number, "user_id", user.ID, "error", err)
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking", "hotel_id", hotel.ID, "room", room.Number, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"hotel_id", booking.HotelID,
		"room", booking.Room.Number,
		"user_id", booking.UserID,
		"nights", booking.Nights,
		"total_price", booking.TotalPrice,
	)
	s.publisher.Publish(ctx, model.BookingEventCreated, booking)
	return booking, nil
}

// acquireRoomLock waits up to BookingLockWait for a busy room before giving up with 409.
func (s *bookingService) acquireRoomLock(ctx context.Context, lockID string) error {
	deadline := time.Now().Add(s.cfg.BookingLockWait)
	for {
		err := s.locks.Acquire(ctx, lockID, s.cfg.BookingLockTTL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			s.cfg.Log.Error("Failed to acquire booking lock", "lock_id", lockID, "error", err)
			return apperrors.Internal("Failed to acquire booking lock", err)
		}
		if !time.Now().Before(deadline) || !sleepCtx(ctx, lockRetryInterval) {
			s.cfg.Log.Warn("Booking lock still held", "lock_id", lockID, "waited", s.cfg.BookingLockWait)
			return apperrors.Conflict("This room is currently being booked by another request, please try again")
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// releaseRoomLock runs detached from the request so a cancelled client cannot
// leave the room locked until the TTL monitor catches up.
func (s *bookingService) releaseRoomLock(lockID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.locks.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
	}
}

func (s *bookingService) ListForUser(ctx context.Context, user *model.User) (views []model.BookingView, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListForUser")
	defer func() { endSpan(span, err) }()

	bookings, err := s.repo.FindByUser(ctx, user.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	hotels, err := s.hotels.FindSummaries(ctx, hotelIDs(bookings))
	if err != nil {
		s.cfg.Log.Error("Failed to load hotel summaries", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	views = make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, model.BookingView{
			ID:         b.ID,
			Hotel:      summaryFor(hotels, b.HotelID),
			RoomNumber: b.Room.Number,
			Room:       b.Room,
			CheckIn:    b.CheckIn,
			CheckOut:   b.CheckOut,
			Nights:     b.Nights,
			TotalPrice: b.TotalPrice,
			Status:     b.Status,
			CreatedAt:  b.CreatedAt,
			UpdatedAt:  b.UpdatedAt,
		})
	}
	return views, nil
}

// transition describes one status change and its effect on room occupancy.
type transition struct {
	name    string
	event   string
	allowed func(*model.Booking) bool
	to      string
	// roomAvailable is applied to the booked room when non-nil.
	roomAvailable func(from string) *bool
	authorize     func(*model.Booking) error
}

func availability(v bool) func(string) *bool {
	return func(string) *bool { return &v }
}

func (s *bookingService) Cancel(ctx context.Context, user *model.User, id string) (booking *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Cancel")
	defer func() { endSpan(span, err) }()

	return s.apply(ctx, id, transition{
		name:    "cancel",
		event:   model.BookingEventCancelled,
		allowed: (*model.Booking).CanCancel,
		to:      model.BookingStatusCancelled,
		roomAvailable: func(from string) *bool {
			if from != model.BookingStatusCheckedIn {
				return nil
			}
			return availability(true)(from)
		},
		authorize: func(b *model.Booking) error {
			if b.UserID != user.ID && !user.IsManager() {
				return apperrors.Forbidden("You can only cancel your own bookings")
			}
			return nil
		},
	})
}

func (s *bookingService) CheckIn(ctx context.Context, id string) (booking *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CheckIn")
	defer func() { endSpan(span, err) }()

	return s.apply(ctx, id, transition{
		name:          "check in",
		event:         model.BookingEventCheckedIn,
		allowed:       (*model.Booking).CanCheckIn,
		to:            model.BookingStatusCheckedIn,
		roomAvailable: availability(false),
	})
}

func (s *bookingService) CheckOut(ctx context.Context, id string) (booking *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CheckOut")
	defer func() { endSpan(span, err) }()

	return s.apply(ctx, id, transition{
		name:          "check out",
		event:         model.BookingEventCheckedOut,
		allowed:       (*model.Booking).CanCheckOut,
		to:            model.BookingStatusCompleted,
		roomAvailable: availability(true),
	})
}

// apply reads the booking, checks the transition and writes the new status and
// room state in a single transaction.
func (s *bookingService) apply(ctx context.Context, id string, t transition) (*model.Booking, error) {
	var booking *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		b, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return translateBookingError(err, id)
		}
		if t.authorize != nil {
			if err := t.authorize(b); err != nil {
				return err
			}
		}
		if !t.allowed(b) {
			return apperrors.Conflict(fmt.Sprintf("Cannot %s a booking that is %s", t.name, b.Status)).
				WithDetails(map[string]any{"status": b.Status})
		}

		from := b.Status
		if err := s.repo.UpdateStatus(sessCtx, b.ID, from, t.to); err != nil {
			if errors.Is(err, bookingserrors.ErrStatusChanged) {
				return apperrors.Conflict("Booking was modified by another request, please retry")
			}
			return err
		}

		if t.to == model.BookingStatusCancelled {
			if err := s.hotels.DetachBooking(sessCtx, b.HotelID, b.ID); err != nil && !isMissingHotel(err) {
				return err
			}
		}

		if available := t.roomAvailable(from); available != nil {
			err := s.hotels.SetRoomAvailability(sessCtx, b.HotelID, b.Room.Number, *available)
			switch {
			case err == nil:
			case !isMissingHotel(err):
				return err
			case t.to != model.BookingStatusCancelled:
				return translateHotelError(err, b.HotelID)
			}
		}

		b.Status = t.to
		b.UpdatedAt = mongotx.Now()
		booking = b
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to update booking", "id", id, "action", t.name, "error", err)
		return nil, apperrors.Internal(fmt.Sprintf("Failed to %s booking", t.name), err)
	}

	s.cfg.Log.Info("Booking updated", "id", booking.ID, "action", t.name, "status", booking.Status)
	s.publisher.Publish(ctx, t.event, booking)
	return booking, nil
}

// ListForManager returns bookings grouped by hotel, each with its guest.
// Groups keep the order in which their newest booking appears.
func (s *bookingService) ListForManager(ctx context.Context, filter model.BookingFilter) (resp *model.ManagerBookingsResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListForManager")
	defer func() { endSpan(span, err) }()

	if err := s.validator.ValidateFilter(filter); err != nil {
		return nil, validationError("Invalid booking filter", err)
	}

	bookings, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	var (
		wg                 sync.WaitGroup
		hotels             map[string]model.HotelSummary
		users              map[string]*model.User
		hotelErr, usersErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		hotels, hotelErr = s.hotels.FindSummaries(ctx, hotelIDs(bookings))
	}()
	go func() {
		defer wg.Done()
		users, usersErr = s.users.FindByIDs(ctx, userIDs(bookings))
	}()
	wg.Wait()

	if err := errors.Join(hotelErr, usersErr); err != nil {
		s.cfg.Log.Error("Failed to load booking relations", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	resp = &model.ManagerBookingsResponse{Count: len(bookings), Grouped: []model.HotelBookings{}}
	index := make(map[string]int)
	for _, b := range bookings {
		i, ok := index[b.HotelID]
		if !ok {
			i = len(resp.Grouped)
			index[b.HotelID] = i
			resp.Grouped = append(resp.Grouped, model.HotelBookings{
				Hotel:    summaryFor(hotels, b.HotelID),
				Bookings: []model.ManagerBookingView{},
			})
		}
		resp.Grouped[i].Bookings = append(resp.Grouped[i].Bookings, model.ManagerBookingView{
			Booking: *b,
			User:    userSummaryFor(users, b.UserID),
		})
	}
	return resp, nil
}

func hotelIDs(bookings []*model.Booking) []string {
	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.HotelID]; !ok {
			seen[b.HotelID] = struct{}{}
			ids = append(ids, b.HotelID)
		}
	}
	return ids
}

func userIDs(bookings []*model.Booking) []string {
	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.UserID]; !ok {
			seen[b.UserID] = struct{}{}
			ids = append(ids, b.UserID)
		}
	}
	return ids
}

// summaryFor falls back to a bare id when the hotel has since been removed.
func summaryFor(hotels map[string]model.HotelSummary, id string) *model.HotelSummary {
	if summary, ok := hotels[id]; ok {
		return &summary
	}
	return &model.HotelSummary{ID: id}
}

func userSummaryFor(users map[string]*model.User, id string) *model.UserSummary {
	if u, ok := users[id]; ok && u != nil {
		return &model.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return &model.UserSummary{ID: id}
}

func isMissingHotel(err error) bool {
	return errors.Is(err, hotelserrors.ErrNotFound) || errors.Is(err, hotelserrors.ErrRoomNotFound)
}

func translateHotelError(err error, id string) error {
	switch {
	case errors.Is(err, hotelserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid hotel ID format")
	case errors.Is(err, hotelserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Hotel", id)
	case errors.Is(err, hotelserrors.ErrRoomNotFound):
		return apperrors.NotFound("Room")
	default:
		return apperrors.Internal("Failed to retrieve hotel", err)
	}
}

func translateBookingError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	default:
		return err
	}
}

func validationError(message string, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
