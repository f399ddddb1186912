package service

import (
	"context"
	"errors"
	"time"

	authrepo "ticketbooking/internal/auth/repository"
	"ticketbooking/internal/blogs/cache"
	blogserrors "ticketbooking/internal/blogs/errors"
	"ticketbooking/internal/blogs/repository"
	"ticketbooking/pkg/config"
	apperrors "ticketbooking/pkg/errors"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/sanitizer"
)

// cacheOpTimeout keeps a slow Redis from delaying reads that Mongo can serve.
const cacheOpTimeout = 500 * time.Millisecond

type BlogService interface {
	List(ctx context.Context) ([]model.BlogView, error)
	GetBySlug(ctx context.Context, slug string) (*model.BlogView, error)
}

type blogService struct {
	repo  repository.BlogRepository
	users authrepo.UserRepository
	cache cache.Cache
	cfg   *config.Config
}

func NewBlogService(repo repository.BlogRepository, users authrepo.UserRepository, cache cache.Cache, cfg *config.Config) BlogService {
	return &blogService{
		repo:  repo,
		users: users,
		cache: cache,
		cfg:   cfg,
	}
}

func (s *blogService) List(ctx context.Context) ([]model.BlogView, error) {
	var views []model.BlogView
	if s.readCache(ctx, cache.ListKey(), &views) {
		return views, nil
	}

	blogs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list blogs", "error", err)
		return nil, apperrors.Internal("Failed to retrieve blogs", err)
	}

	views, err = s.withAuthors(ctx, blogs)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, cache.ListKey(), views)
	return views, nil
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*model.BlogView, error) {
	slug = sanitizer.Slugify(slug)
	if slug == "" {
		return nil, apperrors.NotFound("Blog")
	}

	var view model.BlogView
	if s.readCache(ctx, cache.SlugKey(slug), &view) {
		return &view, nil
	}

	blog, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, blogserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Blog", slug)
		}
		s.cfg.Log.Error("Failed to load blog", "slug", slug, "error", err)
		return nil, apperrors.Internal("Failed to retrieve blog", err)
	}

	views, err := s.withAuthors(ctx, []*model.Blog{blog})
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, cache.SlugKey(slug), views[0])
	return &views[0], nil
}

func (s *blogService) withAuthors(ctx context.Context, blogs []*model.Blog) ([]model.BlogView, error) {
	ids := make([]string, 0, len(blogs))
	for _, b := range blogs {
		if b.AuthorID != "" {
			ids = append(ids, b.AuthorID)
		}
	}

	authors := map[string]*model.User{}
	if len(ids) > 0 {
		var err error
		authors, err = s.users.FindByIDs(ctx, ids)
		if err != nil {
			s.cfg.Log.Error("Failed to load blog authors", "error", err)
			return nil, apperrors.Internal("Failed to retrieve blogs", err)
		}
	}

	views := make([]model.BlogView, 0, len(blogs))
	for _, b := range blogs {
		view := model.BlogView{Blog: *b}
		if author, ok := authors[b.AuthorID]; ok && author != nil {
			view.Author = &model.UserSummary{ID: author.ID, Username: author.Username, Email: author.Email}
		}
		views = append(views, view)
	}
	return views, nil
}

// readCache reports a hit. Cache failures only degrade to a database read.
func (s *blogService) readCache(ctx context.Context, key string, dst any) bool {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	err := s.cache.Get(ctx, key, dst)
	if err == nil {
		return true
	}
	if !errors.Is(err, blogserrors.ErrCacheMiss) {
		s.cfg.Log.Warn("Blog cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *blogService) writeCache(ctx context.Context, key string, value any) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := s.cache.Set(ctx, key, value); err != nil {
		s.cfg.Log.Warn("Blog cache write failed", "key", key, "error", err)
	}
}
