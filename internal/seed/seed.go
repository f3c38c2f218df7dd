// Package seed imports and destroys JSON fixtures for local development.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/projecthub/api/internal/database"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/modules/auth/user"
	"github.com/projecthub/api/internal/modules/content/category"
	"github.com/projecthub/api/internal/modules/content/rating"
)

// UserFixture carries the plain password that models.User never serialises.
type UserFixture struct {
	models.User
	Password string `json:"password"`
}

// Fixtures is the content of a data directory.
type Fixtures struct {
	Categories []models.Category
	Users      []UserFixture
	Projects   []models.Project
	Reviews    []models.Review
}

// Load reads categories.json, users.json, projects.json and reviews.json from dir.
// Missing files are treated as empty.
func Load(dir string) (*Fixtures, error) {
	fx := &Fixtures{}
	files := []struct {
		name string
		dst  interface{}
	}{
		{"categories.json", &fx.Categories},
		{"users.json", &fx.Users},
		{"projects.json", &fx.Projects},
		{"reviews.json", &fx.Reviews},
	}
	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(dir, f.name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}
	return fx, nil
}

// Prepare fills the fields the API would derive on create: ids, slugs, default photos,
// hashed passwords and default roles.
func (fx *Fixtures) Prepare() error {
	for i := range fx.Categories {
		c := &fx.Categories[i]
		c.Init()
		c.Slug = category.Slugify(c.Name)
		if c.Photo == "" {
			c.Photo = models.DefaultPhoto
		}
	}
	for i := range fx.Users {
		u := &fx.Users[i]
		u.Init()
		u.Email = user.NormalizeEmail(u.Email)
		if u.User.Role == "" {
			u.User.Role = models.RoleStudent
		}
		if !u.User.Role.Valid() {
			return fmt.Errorf("user %s: unknown role %q", u.Email, u.User.Role)
		}
		if strings.TrimSpace(u.Password) == "" {
			return fmt.Errorf("user %s: password is required", u.Email)
		}
		hash, err := user.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		u.User.Password = hash
	}
	for i := range fx.Projects {
		p := &fx.Projects[i]
		p.Init()
		p.AverageRating = nil
		if p.Photo == "" {
			p.Photo = models.DefaultPhoto
		}
	}
	for i := range fx.Reviews {
		r := &fx.Reviews[i]
		r.Init()
		if r.Rating < models.MinRating || r.Rating > models.MaxRating {
			return fmt.Errorf("review %s: rating %d out of range", r.ID.Hex(), r.Rating)
		}
	}
	return nil
}

// Import inserts the prepared fixtures and recomputes the rating of every reviewed project.
func Import(ctx context.Context, store *database.Store, fx *Fixtures, log *zap.Logger) error {
	for i := range fx.Categories {
		if err := store.Categories.Insert(ctx, &fx.Categories[i]); err != nil {
			return fmt.Errorf("category %q: %w", fx.Categories[i].Name, err)
		}
	}
	for i := range fx.Users {
		if err := store.Users.Insert(ctx, &fx.Users[i].User); err != nil {
			return fmt.Errorf("user %q: %w", fx.Users[i].Email, err)
		}
	}
	for i := range fx.Projects {
		if err := store.Projects.Insert(ctx, &fx.Projects[i]); err != nil {
			return fmt.Errorf("project %q: %w", fx.Projects[i].Title, err)
		}
	}
	reviewed := map[primitive.ObjectID]struct{}{}
	for i := range fx.Reviews {
		if err := store.Reviews.Insert(ctx, &fx.Reviews[i]); err != nil {
			return fmt.Errorf("review %q: %w", fx.Reviews[i].Title, err)
		}
		reviewed[fx.Reviews[i].Project] = struct{}{}
	}

	ratings := rating.NewAggregator(store.Reviews, store.Projects, log)
	for id := range reviewed {
		ratings.Recompute(ctx, id)
	}

	log.Info("data imported",
		zap.Int("categories", len(fx.Categories)),
		zap.Int("users", len(fx.Users)),
		zap.Int("projects", len(fx.Projects)),
		zap.Int("reviews", len(fx.Reviews)),
	)
	return nil
}

// Destroy removes every document the seeder manages.
func Destroy(ctx context.Context, store *database.Store, log *zap.Logger) error {
	steps := []struct {
		name string
		run  func() (int64, error)
	}{
		{"reviews", func() (int64, error) { return store.Reviews.DeleteMany(ctx, bson.D{}) }},
		{"projects", func() (int64, error) { return store.Projects.DeleteMany(ctx, bson.D{}) }},
		{"profiles", func() (int64, error) { return store.Profiles.DeleteMany(ctx, bson.D{}) }},
		{"users", func() (int64, error) { return store.Users.DeleteMany(ctx, bson.D{}) }},
		{"categories", func() (int64, error) { return store.Categories.DeleteMany(ctx, bson.D{}) }},
	}
	for _, s := range steps {
		n, err := s.run()
		if err != nil {
			return fmt.Errorf("delete %s: %w", s.name, err)
		}
		log.Info("data destroyed", zap.String("collection", s.name), zap.Int64("deleted", n))
	}
	return nil
}
