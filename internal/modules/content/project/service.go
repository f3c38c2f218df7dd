package project

import (
	"context"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projecthub/api/internal/database"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/query"
)

type Store interface {
	Insert(ctx context.Context, doc *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Project, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, spec query.Spec, relations ...query.Relation) (*query.Result, error)
}

type CategoryFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
}

type ReviewRemover interface {
	DeleteMany(ctx context.Context, filter bson.D) (int64, error)
}

type Service struct {
	store      Store
	categories CategoryFinder
	reviews    ReviewRemover
}

func NewService(store Store, categories CategoryFinder, reviews ReviewRemover) *Service {
	return &Service{store: store, categories: categories, reviews: reviews}
}

// List returns a page of projects, scoped to a category when categoryID is set.
func (s *Service) List(ctx context.Context, categoryID string, params url.Values) (*query.Result, error) {
	spec, err := query.Parse(params, Schema)
	if err != nil {
		return nil, err
	}
	if categoryID != "" {
		id, err := database.ParseID(categoryID)
		if err != nil {
			return nil, err
		}
		spec = spec.Where("category", id)
	}
	return s.store.List(ctx, spec, Relations...)
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Project, error) {
	id, err := database.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Create adds a project to an existing category on behalf of owner.
func (s *Service) Create(ctx context.Context, categoryID string, owner primitive.ObjectID, dto *CreateProjectDTO) (*models.Project, error) {
	catID, err := database.ParseID(categoryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, catID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return nil, apperr.Validation("Please add a title")
	}
	p := &models.Project{
		Title:       title,
		Description: dto.Description,
		URL:         strings.TrimSpace(dto.URL),
		Photo:       models.DefaultPhoto,
		Favorite:    dto.Favorite,
		Category:    catID,
		User:        owner,
	}
	p.Init()
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Owned loads a project and checks that user owns it.
func (s *Service) Owned(ctx context.Context, rawID string, user primitive.ObjectID, action string) (*models.Project, error) {
	p, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if p.User != user {
		return nil, apperr.Forbidden("User %s is not authorized to %s this project", user.Hex(), action)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, rawID string, user primitive.ObjectID, dto *UpdateProjectDTO) (*models.Project, error) {
	p, err := s.Owned(ctx, rawID, user, "update")
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if title == "" {
			return nil, apperr.Validation("Please add a title")
		}
		fields["title"] = title
	}
	if dto.Description != nil {
		if strings.TrimSpace(*dto.Description) == "" {
			return nil, apperr.Validation("Please add a description")
		}
		fields["description"] = *dto.Description
	}
	if dto.URL != nil {
		fields["url"] = strings.TrimSpace(*dto.URL)
	}
	if dto.Favorite != nil {
		fields["favorite"] = *dto.Favorite
	}
	return s.store.UpdateByID(ctx, p.ID, fields)
}

// Delete removes an owned project together with its reviews.
func (s *Service) Delete(ctx context.Context, rawID string, user primitive.ObjectID) error {
	p, err := s.Owned(ctx, rawID, user, "delete")
	if err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, p.ID); err != nil {
		return err
	}
	_, err = s.reviews.DeleteMany(ctx, bson.D{{Key: "project", Value: p.ID}})
	return err
}

func (s *Service) SetPhoto(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.store.UpdateByID(ctx, id, bson.M{"photo": name})
	return err
}
