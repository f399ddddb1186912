package testutil

import (
	"time"

	"ticketbooking/pkg/model"
)

type HotelBuilder struct {
	req model.HotelCreateRequest
}

func NewHotelBuilder() *HotelBuilder {
	return &HotelBuilder{
		req: model.HotelCreateRequest{
			Name:      "Seaside Inn",
			City:      "Lisbon",
			Rating:    4.5,
			Amenities: []string{"wifi", "breakfast"},
			Rooms: []model.RoomInput{
				{Number: "101", Type: "double", Price: 120},
				{Number: "102", Type: "single", Price: 80},
			},
		},
	}
}

func (b *HotelBuilder) WithName(name string) *HotelBuilder {
	b.req.Name = name
	return b
}

func (b *HotelBuilder) WithCity(city string) *HotelBuilder {
	b.req.City = city
	return b
}

func (b *HotelBuilder) Build() model.HotelCreateRequest {
	return b.req
}

// Stay returns a booking request starting daysAhead from today for the given nights.
func Stay(hotelID, room string, daysAhead, nights int) model.BookingRequest {
	start := time.Now().UTC().AddDate(0, 0, daysAhead)
	return model.BookingRequest{
		HotelID:    hotelID,
		RoomNumber: room,
		CheckIn:    start.Format(time.DateOnly),
		CheckOut:   start.AddDate(0, 0, nights).Format(time.DateOnly),
	}
}
