package user

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
	Insert(ctx context.Context, doc *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindOne(ctx context.Context, filter bson.D) (*models.User, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
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
	return s.store.List(ctx, spec)
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.User, error) {
	id, err := database.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// FindByEmail looks a user up by normalized email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.store.FindOne(ctx, bson.D{{Key: "email", Value: NormalizeEmail(email)}})
}

// Create hashes the password and stores the user. An empty role means student.
func (s *Service) Create(ctx context.Context, dto *CreateUserDTO) (*models.User, error) {
	role := models.Role(dto.Role)
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, apperr.Validation("role must be one of: student instructor admin")
	}
	hash, err := HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:     strings.TrimSpace(dto.Name),
		Email:    NormalizeEmail(dto.Email),
		Role:     role,
		Password: hash,
	}
	u.Init()
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, rawID string, dto *UpdateUserDTO) (*models.User, error) {
	id, err := database.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if dto.Name != nil {
		fields["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Email != nil {
		fields["email"] = NormalizeEmail(*dto.Email)
	}
	if dto.Role != nil {
		fields["role"] = *dto.Role
	}
	if dto.Password != nil {
		hash, err := HashPassword(*dto.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}
	return s.store.UpdateByID(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := database.ParseID(rawID)
	if err != nil {
		return err
	}
	return s.store.DeleteByID(ctx, id)
}
