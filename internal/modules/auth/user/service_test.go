package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projecthub/api/internal/middleware/guardtest"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/query"
	"github.com/projecthub/api/internal/pkg/validate"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Insert(ctx context.Context, doc *models.User) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) FindOne(ctx context.Context, filter bson.D) (*models.User, error) {
	args := m.Called(ctx, filter)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) List(ctx context.Context, spec query.Spec, relations ...query.Relation) (*query.Result, error) {
	args := m.Called(ctx, spec)
	res, _ := args.Get(0).(*query.Result)
	return res, args.Error(1)
}

func TestCreateHashesPasswordAndDefaultsRole(t *testing.T) {
	store := &mockStore{}
	var saved *models.User
	store.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*models.User)
	}).Return(nil)

	u, err := NewService(store).Create(context.Background(), &CreateUserDTO{Email: " A@X.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.NotEqual(t, "secret123", saved.Password)
	assert.True(t, CheckPassword(saved.Password, "secret123"))
	assert.False(t, CheckPassword(saved.Password, "wrong"))
}

func TestUpdateRehashesPassword(t *testing.T) {
	store := &mockStore{}
	id := primitive.NewObjectID()
	store.On("UpdateByID", mock.Anything, id, mock.MatchedBy(func(f bson.M) bool {
		hash, ok := f["password"].(string)
		return ok && CheckPassword(hash, "newpass1") && f["role"] == "instructor"
	})).Return(&models.User{}, nil)

	pw, role := "newpass1", "instructor"
	_, err := NewService(store).Update(context.Background(), id.Hex(), &UpdateUserDTO{Password: &pw, Role: &role})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUserRoutesAreAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validate.Setup()
	admin := guardtest.NewUser(models.RoleAdmin)
	instructor := guardtest.NewUser(models.RoleInstructor)
	store := &mockStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	r := gin.New()
	NewHandler(NewService(store)).RegisterRoutes(r.Group("/api/v1"), guardtest.Guard(admin, instructor))

	post := func(user *models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/users", strings.NewReader(`{"email":"n@x.com","password":"secret123","role":"admin"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, guardtest.SignAs(req, user))
		return w
	}

	assert.Equal(t, http.StatusForbidden, post(instructor).Code)

	w := post(admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin", body.Data["role"])
	assert.NotContains(t, body.Data, "password")
}

func TestHashPasswordTooLongIsValidation(t *testing.T) {
	_, err := HashPassword(strings.Repeat("é", 40))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "password can not be more than 72 bytes", err.Error())
}
