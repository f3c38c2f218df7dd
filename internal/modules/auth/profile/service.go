package profile

import (
	"context"
	"errors"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projecthub/api/internal/database"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/query"
)

type Store interface {
	Insert(ctx context.Context, doc *models.Profile) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Profile, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, spec query.Spec, relations ...query.Relation) (*query.Result, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, params url.Values) (*query.Result, error) {
	spec, err := query.Parse(params, Schema)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, spec, Relations...)
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Profile, error) {
	id, err := database.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Create stores owner's profile. A user has at most one.
func (s *Service) Create(ctx context.Context, owner primitive.ObjectID, dto *CreateProfileDTO) (*models.Profile, error) {
	p := &models.Profile{
		User:       owner,
		Photo:      models.DefaultPhoto,
		Location:   dto.Location,
		Bio:        dto.Bio,
		Website:    dto.Website,
		Skills:     dto.Skills,
		Experience: dto.Experience.model(),
		Education:  dto.Education.model(),
		Social:     dto.Social,
	}
	p.Init()
	if err := s.store.Insert(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("User %s already has a profile", owner.Hex())
		}
		return nil, err
	}
	return p, nil
}

// Owned loads a profile and checks that user owns it.
func (s *Service) Owned(ctx context.Context, rawID string, user primitive.ObjectID, action string) (*models.Profile, error) {
	p, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if p.User != user {
		return nil, apperr.Forbidden("User %s is not authorized to %s this profile", user.Hex(), action)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, rawID string, user primitive.ObjectID, dto *UpdateProfileDTO) (*models.Profile, error) {
	p, err := s.Owned(ctx, rawID, user, "update")
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if dto.Location != nil {
		fields["location"] = *dto.Location
	}
	if dto.Bio != nil {
		fields["bio"] = *dto.Bio
	}
	if dto.Website != nil {
		fields["website"] = *dto.Website
	}
	if dto.Skills != nil {
		fields["skills"] = dto.Skills
	}
	if dto.Experience != nil {
		fields["experience"] = dto.Experience.model()
	}
	if dto.Education != nil {
		fields["education"] = dto.Education.model()
	}
	if dto.Social != nil {
		fields["social"] = *dto.Social
	}
	return s.store.UpdateByID(ctx, p.ID, fields)
}

func (s *Service) Delete(ctx context.Context, rawID string, user primitive.ObjectID) error {
	p, err := s.Owned(ctx, rawID, user, "delete")
	if err != nil {
		return err
	}
	return s.store.DeleteByID(ctx, p.ID)
}

func (s *Service) SetPhoto(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.store.UpdateByID(ctx, id, bson.M{"photo": name})
	return err
}
