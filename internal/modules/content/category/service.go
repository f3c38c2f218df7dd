package category

import (
	"context"
	"net/url"
	"strings"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projecthub/api/internal/database"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/query"
)

// Store is the persistence the service needs; *database.Collection[models.Category] satisfies it.
type Store interface {
	Insert(ctx context.Context, doc *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Category, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter bson.D) (int64, error)
	List(ctx context.Context, spec query.Spec, relations ...query.Relation) (*query.Result, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Slugify is the URL form of a category name.
func Slugify(name string) string {
	return slug.Make(name)
}

func (s *Service) List(ctx context.Context, params url.Values) (*query.Result, error) {
	spec, err := query.Parse(params, Schema)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, spec)
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Category, error) {
	id, err := database.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, dto *CreateCategoryDTO) (*models.Category, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.Validation("Please add a name")
	}
	cat := &models.Category{Name: name, Slug: Slugify(name), Photo: models.DefaultPhoto}
	cat.Init()
	if err := s.store.Insert(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Service) Update(ctx context.Context, rawID string, dto *UpdateCategoryDTO) (*models.Category, error) {
	id, err := database.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	fields := bson.M{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, apperr.Validation("Please add a name")
		}
		fields["name"] = name
		fields["slug"] = Slugify(name)
	}
	return s.store.UpdateByID(ctx, id, fields)
}

// Delete removes one category. Its projects are left in place.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := database.ParseID(rawID)
	if err != nil {
		return err
	}
	return s.store.DeleteByID(ctx, id)
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	return s.store.DeleteMany(ctx, bson.D{})
}

func (s *Service) SetPhoto(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.store.UpdateByID(ctx, id, bson.M{"photo": name})
	return err
}
