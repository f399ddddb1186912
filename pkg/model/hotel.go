package model

import "time"

type Room struct {
	Number      string   `json:"number" bson:"number"`
	Type        string   `json:"type" bson:"type"`
	Price       float64  `json:"price" bson:"price"`
	Amenities   []string `json:"amenities" bson:"amenities"`
	IsAvailable bool     `json:"is_available" bson:"is_available"`
	BookingRefs []string `json:"booking_refs" bson:"bookings"`
}

type Hotel struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	City         string    `json:"city" bson:"city"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Rating       float64   `json:"rating" bson:"rating"`
	Amenities    []string  `json:"amenities" bson:"amenities"`
	BasePrice    float64   `json:"base_price" bson:"base_price"`
	Images       []string  `json:"images" bson:"images"`
	Rooms        []Room    `json:"rooms" bson:"rooms"`
	Customers    []string  `json:"customers" bson:"customers"`
	ManagerNotes string    `json:"manager_notes,omitempty" bson:"manager_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// FindRoom returns the room with the given number, or nil.
func (h *Hotel) FindRoom(number string) *Room {
	for i := range h.Rooms {
		if h.Rooms[i].Number == number {
			return &h.Rooms[i]
		}
	}
	return nil
}

// NightlyRate prefers the room's own price and falls back to the hotel base price.
func (h *Hotel) NightlyRate(room *Room) float64 {
	if room != nil && room.Price > 0 {
		return room.Price
	}
	if h.BasePrice > 0 {
		return h.BasePrice
	}
	return 0
}

// HotelSummary is embedded in booking listings.
type HotelSummary struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
	City string `json:"city" bson:"city"`
}

func (h *Hotel) Summary() HotelSummary {
	return HotelSummary{ID: h.ID, Name: h.Name, City: h.City}
}

type RoomInput struct {
	Number      string   `json:"number" validate:"required,max=20"`
	Type        string   `json:"type" validate:"required,min=2,max=50"`
	Price       float64  `json:"price" validate:"gte=0"`
	Amenities   []string `json:"amenities" validate:"omitempty,max=50,dive,min=1,max=60"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

type HotelCreateRequest struct {
	Name         string      `json:"name" validate:"required,min=2,max=120"`
	City         string      `json:"city" validate:"required,min=2,max=80"`
	Address      string      `json:"address,omitempty" validate:"omitempty,max=200"`
	Description  string      `json:"description,omitempty" validate:"omitempty,max=5000"`
	Rating       float64     `json:"rating" validate:"gte=0,lte=5"`
	Amenities    []string    `json:"amenities" validate:"omitempty,max=50,dive,min=1,max=60"`
	BasePrice    *float64    `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	Images       []string    `json:"images" validate:"omitempty,max=20,dive,url"`
	Rooms        []RoomInput `json:"rooms" validate:"omitempty,max=500,unique=Number,dive"`
	ManagerNotes string      `json:"manager_notes,omitempty" validate:"omitempty,max=2000"`
}

type HotelFilter struct {
	City string
}
