package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	blogserrors "ticketbooking/internal/blogs/errors"
	"ticketbooking/pkg/config"
	apperrors "ticketbooking/pkg/errors"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"
)

type mockBlogRepository struct {
	blogs     []*model.Blog
	listCalls int
	slugCalls int
	err       error
}

func (m *mockBlogRepository) FindAll(ctx context.Context) ([]*model.Blog, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.Blog, 0, len(m.blogs))
	for _, b := range m.blogs {
		copied := *b
		copied.Body = ""
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockBlogRepository) FindBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	m.slugCalls++
	for _, b := range m.blogs {
		if b.Slug == slug {
			copied := *b
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", blogserrors.ErrNotFound, slug)
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
	out := make(map[string]*model.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// memoryCache mimics Redis by storing JSON.
type memoryCache struct {
	data   map[string][]byte
	getErr error
}

func (c *memoryCache) Get(ctx context.Context, key string, dst any) error {
	if c.getErr != nil {
		return c.getErr
	}
	data, ok := c.data[key]
	if !ok {
		return blogserrors.ErrCacheMiss
	}
	return json.Unmarshal(data, dst)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = data
	return nil
}

func newTestService(repo *mockBlogRepository, c *memoryCache) BlogService {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	users := &mockUserRepository{users: map[string]*model.User{
		"u1": {ID: "u1", Username: "maria", Email: "maria@example.com", PasswordHash: "secret"},
	}}
	return NewBlogService(repo, users, c, &config.Config{Log: log})
}

func sampleBlogs() []*model.Blog {
	now := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	return []*model.Blog{
		{ID: "b2", Title: "Bali beaches", Slug: "bali-beaches", Body: "Sand.", AuthorID: "u1", CreatedAt: now},
		{ID: "b1", Title: "Anonymous notes", Slug: "anonymous-notes", Body: "Hi.", CreatedAt: now.Add(-time.Hour)},
	}
}

func TestList_ReadThroughCache(t *testing.T) {
	repo := &mockBlogRepository{blogs: sampleBlogs()}
	c := &memoryCache{data: map[string][]byte{}}
	svc := newTestService(repo, c)

	for i := 0; i < 2; i++ {
		views, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(views) != 2 || views[0].Slug != "bali-beaches" {
			t.Fatalf("views = %+v", views)
		}
		if views[0].Body != "" {
			t.Error("list must not carry bodies")
		}
		if views[0].Author == nil || views[0].Author.Username != "maria" {
			t.Errorf("author = %+v", views[0].Author)
		}
		if views[1].Author != nil {
			t.Errorf("blog without author got %+v", views[1].Author)
		}
	}

	if repo.listCalls != 1 {
		t.Errorf("repository hit %d times, want 1", repo.listCalls)
	}
}

func TestGetBySlug(t *testing.T) {
	repo := &mockBlogRepository{blogs: sampleBlogs()}
	c := &memoryCache{data: map[string][]byte{}}
	svc := newTestService(repo, c)

	view, err := svc.GetBySlug(context.Background(), " Bali-Beaches ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Body != "Sand." || view.Author.Email != "maria@example.com" {
		t.Errorf("view = %+v", view)
	}

	if _, err := svc.GetBySlug(context.Background(), "bali-beaches"); err != nil {
		t.Fatal(err)
	}
	if repo.slugCalls != 1 {
		t.Errorf("repository hit %d times, want 1", repo.slugCalls)
	}

	_, err = svc.GetBySlug(context.Background(), "missing-post")
	if apperrors.AsAppError(err).StatusCode() != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
	_, err = svc.GetBySlug(context.Background(), "!!!")
	if apperrors.AsAppError(err).StatusCode() != http.StatusNotFound {
		t.Errorf("empty slug should be 404, got %v", err)
	}
}

func TestGetBySlug_NormalisesPath(t *testing.T) {
	blogs := append(sampleBlogs(), &model.Blog{ID: "b3", Title: "Łódź guide", Slug: "lodz-guide", Body: "Old town."})
	svc := newTestService(&mockBlogRepository{blogs: blogs}, &memoryCache{data: map[string][]byte{}})

	tests := []struct {
		path string
		want string
	}{
		{path: "Bali_Beaches", want: "b2"},
		{path: "Łódź Guide", want: "b3"},
		{path: "lodz-guide", want: "b3"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			view, err := svc.GetBySlug(context.Background(), tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if view.ID != tt.want {
				t.Errorf("resolved %q to %s, want %s", tt.path, view.ID, tt.want)
			}
		})
	}
}

func TestCacheFailureFallsBackToDatabase(t *testing.T) {
	repo := &mockBlogRepository{blogs: sampleBlogs()}
	c := &memoryCache{data: map[string][]byte{}, getErr: errors.New("redis: connection refused")}
	svc := newTestService(repo, c)

	views, err := svc.List(context.Background())
	if err != nil || len(views) != 2 {
		t.Fatalf("List() = %v, %v", views, err)
	}
}

func TestList_RepositoryError(t *testing.T) {
	repo := &mockBlogRepository{err: errors.New("mongo down")}
	svc := newTestService(repo, &memoryCache{data: map[string][]byte{}})

	_, err := svc.List(context.Background())
	if apperrors.AsAppError(err).StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
}
