package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	hotelserrors "ticketbooking/internal/hotels/errors"
	"ticketbooking/pkg/config"
	mongotx "ticketbooking/pkg/db/mongo"
	"ticketbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Hotels"

type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	FindAll(ctx context.Context, filter model.HotelFilter, limit int, offset int64) ([]*model.Hotel, error)
	Count(ctx context.Context, filter model.HotelFilter) (int64, error)
	FindSummaries(ctx context.Context, ids []string) (map[string]model.HotelSummary, error)

	// AttachBooking records bookingID on the room and in the hotel customer list.
	// Inside a transaction this write is what makes concurrent creates on one hotel conflict.
	AttachBooking(ctx context.Context, hotelID, roomNumber, bookingID string) error
	DetachBooking(ctx context.Context, hotelID, bookingID string) error
	SetRoomAvailability(ctx context.Context, hotelID, roomNumber string, available bool) error
}

type mongoHotelRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	return &mongoHotelRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}
	return oid, nil
}

// filterQuery matches the city case-insensitively but in full.
func filterQuery(filter model.HotelFilter) bson.M {
	query := bson.M{}
	if city := strings.TrimSpace(filter.City); city != "" {
		query["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(city) + "$", Options: "i"}
	}
	return query
}

func (r *mongoHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	hotel.CreatedAt = now
	hotel.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, hotel)
	if err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		hotel.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var hotel model.Hotel
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&hotel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", hotelserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}
	return &hotel, nil
}

func (r *mongoHotelRepository) FindAll(ctx context.Context, filter model.HotelFilter, limit int, offset int64) ([]*model.Hotel, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"customers": 0, "manager_notes": 0, "rooms.bookings": 0})

	cursor, err := r.collection.Find(ctx, filterQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotels: %w", err)
	}
	defer cursor.Close(ctx)

	hotels := []*model.Hotel{}
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}
	return hotels, nil
}

func (r *mongoHotelRepository) Count(ctx context.Context, filter model.HotelFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}
	return count, nil
}

func (r *mongoHotelRepository) FindSummaries(ctx context.Context, ids []string) (map[string]model.HotelSummary, error) {
	result := make(map[string]model.HotelSummary, len(ids))

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return result, nil
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"name": 1, "city": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotel summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []model.HotelSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode hotel summaries: %w", err)
	}
	for _, s := range summaries {
		result[s.ID] = s
	}
	return result, nil
}

func (r *mongoHotelRepository) AttachBooking(ctx context.Context, hotelID, roomNumber, bookingID string) error {
	oid, err := objectID(hotelID)
	if err != nil {
		return err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "rooms.number": roomNumber},
		bson.M{
			"$addToSet": bson.M{"rooms.$.bookings": bookingID, "customers": bookingID},
			"$set":      bson.M{"updated_at": mongotx.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to attach booking to hotel: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: hotel %s room %s", hotelserrors.ErrRoomNotFound, hotelID, roomNumber)
	}
	return nil
}

func (r *mongoHotelRepository) DetachBooking(ctx context.Context, hotelID, bookingID string) error {
	oid, err := objectID(hotelID)
	if err != nil {
		return err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$pull": bson.M{"rooms.$[].bookings": bookingID, "customers": bookingID},
			"$set":  bson.M{"updated_at": mongotx.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to detach booking from hotel: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", hotelserrors.ErrNotFound, hotelID)
	}
	return nil
}

func (r *mongoHotelRepository) SetRoomAvailability(ctx context.Context, hotelID, roomNumber string, available bool) error {
	oid, err := objectID(hotelID)
	if err != nil {
		return err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "rooms.number": roomNumber},
		bson.M{"$set": bson.M{"rooms.$.is_available": available, "updated_at": mongotx.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update room availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: hotel %s room %s", hotelserrors.ErrRoomNotFound, hotelID, roomNumber)
	}
	return nil
}
