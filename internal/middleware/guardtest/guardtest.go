// Package guardtest builds access guards and signed requests for handler tests.
package guardtest

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projecthub/api/internal/middleware"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/jwt"
)

// Secret signs every token issued by this package.
const Secret = "guardtest-secret"

// Users is an in-memory middleware.UserFinder.
type Users map[primitive.ObjectID]*models.User

func (u Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found with id %s", id.Hex())
}

// NewUser returns a persisted-looking user with the given role.
func NewUser(role models.Role) *models.User {
	u := &models.User{Name: string(role), Email: string(role) + "@example.com", Role: role}
	u.Init()
	return u
}

// Guard knows exactly the given users.
func Guard(users ...*models.User) *middleware.Guard {
	known := Users{}
	for _, u := range users {
		known[u.ID] = u
	}
	jwt.SetSecret(Secret)
	return middleware.NewGuard(known)
}

// SignAs adds a bearer token for user to req.
func SignAs(req *http.Request, user *models.User) *http.Request {
	jwt.SetSecret(Secret)
	token, err := jwt.Sign(user.ID.Hex(), time.Hour)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
