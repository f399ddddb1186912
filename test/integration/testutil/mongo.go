package testutil

import (
	"context"
	"testing"
	"time"

	migrations "ticketbooking/internal/migrations/mongo"
	"ticketbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "ticketbooking"
	ConnectionTimeout   = 10 * time.Second
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{Client: client, Database: client.Database(dbName)}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()
	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("failed to disconnect from MongoDB: %v", err)
	}
}

// CleanDatabase empties every collection but keeps validators and indexes.
func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	for _, def := range migrations.Collections() {
		if _, err := m.Database.Collection(def.Name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean %s: %v", def.Name, err)
		}
	}
}

// PromoteToManager flips the stored role; sessions resolve the user on every request.
func (m *MongoHelper) PromoteToManager(t *testing.T, username string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	res, err := m.Database.Collection(migrations.UsersCollection).UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"role": model.RoleManager}},
	)
	if err != nil || res.MatchedCount != 1 {
		t.Fatalf("failed to promote %s: matched=%v err=%v", username, res, err)
	}
}

// Hotel reads the stored hotel document, bypassing the API's viewer filtering.
func (m *MongoHelper) Hotel(t *testing.T, id string) *model.Hotel {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		t.Fatalf("invalid hotel id %q: %v", id, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	var hotel model.Hotel
	if err := m.Database.Collection(migrations.HotelsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&hotel); err != nil {
		t.Fatalf("failed to load hotel %s: %v", id, err)
	}
	return &hotel
}
