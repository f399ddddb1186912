package repository

import (
	"context"
	"errors"
	"fmt"

	blogserrors "ticketbooking/internal/blogs/errors"
	"ticketbooking/pkg/config"
	mongotx "ticketbooking/pkg/db/mongo"
	"ticketbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Blogs"
	SlugIndex      = "slug_unique"
)

type BlogRepository interface {
	// FindAll returns every blog without its body, newest first.
	FindAll(ctx context.Context) ([]*model.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*model.Blog, error)
}

type mongoBlogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlogRepository(cfg *config.Config) BlogRepository {
	return &mongoBlogRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoBlogRepository) FindAll(ctx context.Context) ([]*model.Blog, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"body": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}
	defer cursor.Close(ctx)

	blogs := []*model.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("failed to decode blogs: %w", err)
	}
	return blogs, nil
}

func (r *mongoBlogRepository) FindBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var blog model.Blog
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&blog); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", blogserrors.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("failed to find blog: %w", err)
	}
	return &blog, nil
}
