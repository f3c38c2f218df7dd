package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/jwt"
	"github.com/projecthub/api/internal/pkg/response"
)

// TokenCookie is the cookie that carries the identity token for browser clients.
const TokenCookie = "token"

// Identity is the authenticated caller, handed to protected handlers explicitly.
type Identity struct {
	ID   primitive.ObjectID
	Role models.Role
	User *models.User
}

// UserFinder resolves token subjects to users.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Guard authenticates bearer/cookie tokens and authorizes roles.
type Guard struct {
	users UserFinder
}

func NewGuard(users UserFinder) *Guard {
	return &Guard{users: users}
}

// Authenticate resolves the request's token to an Identity.
func (g *Guard) Authenticate(c *gin.Context) (Identity, error) {
	token := extractToken(c)
	if token == "" {
		return Identity{}, apperr.Unauthenticated("Not authorized to access this route")
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return Identity{}, apperr.Unauthenticated("Not authorized to access this route")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Identity{}, apperr.Unauthenticated("Not authorized to access this route")
	}

	user, err := g.users.FindByID(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		return Identity{}, apperr.Unauthenticated("Not authorized to access this route")
	}
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: user.ID, Role: user.Role, User: user}, nil
}

// Authorize fails with Forbidden unless who holds one of roles. No roles allows any identity.
func Authorize(who Identity, roles ...models.Role) error {
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if who.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("User role %s is not authorized to access this route", who.Role)
}

// Protect wraps h so it only runs for an authenticated identity holding one of roles.
func (g *Guard) Protect(h func(c *gin.Context, who Identity), roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, err := g.Authenticate(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		if err := Authorize(who, roles...); err != nil {
			response.Error(c, err)
			return
		}
		h(c, who)
	}
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bearer ") {
			return ""
		}
		return NormalizeToken(auth)
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "none" {
		return NormalizeToken(cookie)
	}
	return ""
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
