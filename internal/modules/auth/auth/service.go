package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/modules/auth/user"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/jwt"
)

// Users is the part of the user service registration and login rely on.
type Users interface {
	Create(ctx context.Context, dto *user.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Service struct {
	users Users
	ttl   time.Duration
}

func NewService(users Users, tokenTTL time.Duration) *Service {
	return &Service{users: users, ttl: tokenTTL}
}

func errInvalidCredentials() error {
	return apperr.Unauthenticated("Invalid Credentials")
}

// Register creates a student or instructor account and returns its token.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (string, error) {
	u, err := s.users.Create(ctx, &user.CreateUserDTO{
		Name:     dto.Name,
		Email:    dto.Email,
		Password: dto.Password,
		Role:     dto.Role,
	})
	if err != nil {
		return "", err
	}
	return s.issue(u)
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *Service) Login(ctx context.Context, dto *LoginDTO) (string, error) {
	if strings.TrimSpace(dto.Email) == "" || dto.Password == "" {
		return "", apperr.BadRequest("Please provide an email and password")
	}
	u, err := s.users.FindByEmail(ctx, dto.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", errInvalidCredentials()
	}
	if err != nil {
		return "", err
	}
	if !user.CheckPassword(u.Password, dto.Password) {
		return "", errInvalidCredentials()
	}
	return s.issue(u)
}

func (s *Service) issue(u *models.User) (string, error) {
	token, err := jwt.Sign(u.ID.Hex(), s.ttl)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}
