package review

import (
	"context"
	"errors"
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
	Insert(ctx context.Context, doc *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Review, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, spec query.Spec, relations ...query.Relation) (*query.Result, error)
}

type ProjectFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
}

// Recomputer refreshes a project's averageRating; see rating.Aggregator.
type Recomputer interface {
	Recompute(ctx context.Context, projectID primitive.ObjectID)
}

type Service struct {
	store    Store
	projects ProjectFinder
	ratings  Recomputer
}

func NewService(store Store, projects ProjectFinder, ratings Recomputer) *Service {
	return &Service{store: store, projects: projects, ratings: ratings}
}

// List returns a page of reviews, scoped to a project when projectID is set.
func (s *Service) List(ctx context.Context, projectID string, params url.Values) (*query.Result, error) {
	spec, err := query.Parse(params, Schema)
	if err != nil {
		return nil, err
	}
	if projectID != "" {
		id, err := database.ParseID(projectID)
		if err != nil {
			return nil, err
		}
		spec = spec.Where("project", id)
	}
	return s.store.List(ctx, spec, Relations...)
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Review, error) {
	id, err := database.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Create reviews an existing project. A second review by the same user is a Conflict.
func (s *Service) Create(ctx context.Context, projectID string, author primitive.ObjectID, dto *CreateReviewDTO) (*models.Review, error) {
	pid, err := database.ParseID(projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByID(ctx, pid); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return nil, apperr.Validation("Please add a title")
	}
	r := &models.Review{
		Title:   title,
		Text:    dto.Text,
		Rating:  dto.Rating,
		Project: pid,
		User:    author,
	}
	r.Init()
	if err := s.store.Insert(ctx, r); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("User %s has already reviewed project %s", author.Hex(), pid.Hex())
		}
		return nil, err
	}
	s.ratings.Recompute(ctx, pid)
	return r, nil
}

func (s *Service) owned(ctx context.Context, rawID string, user primitive.ObjectID, action string) (*models.Review, error) {
	r, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if r.User != user {
		return nil, apperr.Forbidden("User %s is not authorized to %s this review", user.Hex(), action)
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, rawID string, user primitive.ObjectID, dto *UpdateReviewDTO) (*models.Review, error) {
	r, err := s.owned(ctx, rawID, user, "update")
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
	if dto.Text != nil {
		if strings.TrimSpace(*dto.Text) == "" {
			return nil, apperr.Validation("Please add a text")
		}
		fields["text"] = *dto.Text
	}
	if dto.Rating != nil {
		if *dto.Rating < models.MinRating || *dto.Rating > models.MaxRating {
			return nil, apperr.Validation("rating must be between %d and %d", models.MinRating, models.MaxRating)
		}
		fields["rating"] = *dto.Rating
	}

	updated, err := s.store.UpdateByID(ctx, r.ID, fields)
	if err != nil {
		return nil, err
	}
	if dto.Rating != nil && *dto.Rating != r.Rating {
		s.ratings.Recompute(ctx, r.Project)
	}
	return updated, nil
}

// Delete removes an owned review and then refreshes the project's rating.
func (s *Service) Delete(ctx context.Context, rawID string, user primitive.ObjectID) error {
	r, err := s.owned(ctx, rawID, user, "delete")
	if err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, r.ID); err != nil {
		return err
	}
	s.ratings.Recompute(ctx, r.Project)
	return nil
}
