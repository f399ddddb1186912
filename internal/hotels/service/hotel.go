package service

import (
	"context"
	"errors"
	"sync"

	hotelserrors "ticketbooking/internal/hotels/errors"
	"ticketbooking/internal/hotels/repository"
	"ticketbooking/internal/hotels/validator"
	"ticketbooking/pkg/config"
	apperrors "ticketbooking/pkg/errors"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/sanitizer"
	"ticketbooking/pkg/validation"
)

type HotelService interface {
	List(ctx context.Context, filter model.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error)
	GetByID(ctx context.Context, id string, viewer *model.User) (*model.Hotel, error)
	Create(ctx context.Context, req *model.HotelCreateRequest) (*model.Hotel, error)
}

type hotelService struct {
	repo      repository.HotelRepository
	validator *validator.HotelValidator
	cfg       *config.Config
}

func NewHotelService(repo repository.HotelRepository, validator *validator.HotelValidator, cfg *config.Config) HotelService {
	return &hotelService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *hotelService) List(ctx context.Context, filter model.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)
	filter.City = sanitizer.NormalizeCity(filter.City)

	var count int64
	var hotels []*model.Hotel
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count hotels", "city", filter.City, "error", err)
			errCount = apperrors.Internal("Failed to count hotels", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		hotels, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list hotels",
				"city", filter.City,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve hotels", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return hotels, count, nil
}

// GetByID hides booking references and manager notes from everyone but managers.
func (s *hotelService) GetByID(ctx context.Context, id string, viewer *model.User) (*model.Hotel, error) {
	hotel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateError(err, id)
	}

	if !viewer.IsManager() {
		hotel.Customers = nil
		hotel.ManagerNotes = ""
		for i := range hotel.Rooms {
			hotel.Rooms[i].BookingRefs = nil
		}
	}
	return hotel, nil
}

func (s *hotelService) Create(ctx context.Context, req *model.HotelCreateRequest) (*model.Hotel, error) {
	sanitize(req)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Hotel validation failed", "name", req.Name, "error", err)
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Hotel validation failed", verrs.Details())
		}
		return nil, apperrors.Validation("Hotel validation failed", map[string]any{"error": err.Error()})
	}

	hotel := newHotel(req)
	if err := s.repo.Create(ctx, hotel); err != nil {
		s.cfg.Log.Error("Failed to create hotel", "name", hotel.Name, "error", err)
		return nil, apperrors.Internal("Failed to create hotel", err)
	}

	s.cfg.Log.Info("Hotel created",
		"id", hotel.ID,
		"name", hotel.Name,
		"city", hotel.City,
		"rooms", len(hotel.Rooms),
	)
	return hotel, nil
}

func sanitize(req *model.HotelCreateRequest) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.City = sanitizer.NormalizeCity(req.City)
	req.Address = sanitizer.TrimAndNormalize(req.Address)
	req.Description = sanitizer.TrimAndNormalize(req.Description)
	req.ManagerNotes = sanitizer.TrimAndNormalize(req.ManagerNotes)
	req.Amenities = sanitizer.NormalizeAmenities(req.Amenities)
	req.Images = sanitizer.NormalizeImageURLs(req.Images)
	for i := range req.Rooms {
		req.Rooms[i].Number = sanitizer.NormalizeRoomNumber(req.Rooms[i].Number)
		req.Rooms[i].Type = sanitizer.TrimAndNormalize(req.Rooms[i].Type)
		req.Rooms[i].Amenities = sanitizer.NormalizeAmenities(req.Rooms[i].Amenities)
	}
}

func newHotel(req *model.HotelCreateRequest) *model.Hotel {
	hotel := &model.Hotel{
		Name:         req.Name,
		City:         req.City,
		Address:      req.Address,
		Description:  req.Description,
		Rating:       req.Rating,
		Amenities:    req.Amenities,
		Images:       req.Images,
		Rooms:        make([]model.Room, 0, len(req.Rooms)),
		Customers:    []string{},
		ManagerNotes: req.ManagerNotes,
	}
	if req.BasePrice != nil {
		hotel.BasePrice = *req.BasePrice
	}
	for _, in := range req.Rooms {
		available := true
		if in.IsAvailable != nil {
			available = *in.IsAvailable
		}
		hotel.Rooms = append(hotel.Rooms, model.Room{
			Number:      in.Number,
			Type:        in.Type,
			Price:       in.Price,
			Amenities:   in.Amenities,
			IsAvailable: available,
			BookingRefs: []string{},
		})
	}
	return hotel
}

func translateError(err error, id string) error {
	switch {
	case errors.Is(err, hotelserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid hotel ID format")
	case errors.Is(err, hotelserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Hotel", id)
	default:
		return apperrors.Internal("Failed to retrieve hotel", err)
	}
}
