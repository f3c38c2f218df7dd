package profile

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

func (m *mockStore) Insert(ctx context.Context, doc *models.Profile) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *mockStore) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Profile, error) {
	args := m.Called(ctx, id, fields)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *mockStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) List(ctx context.Context, spec query.Spec, relations ...query.Relation) (*query.Result, error) {
	args := m.Called(ctx, spec)
	res, _ := args.Get(0).(*query.Result)
	return res, args.Error(1)
}

const validProfile = `{
	"skills": ["go", "mongodb"],
	"website": "https://ada.dev",
	"experience": {"title": "Intern", "company": "Acme", "from": "2022-06-01T00:00:00Z"},
	"education": {"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2019-09-01T00:00:00Z"},
	"social": {"twitter": "https://twitter.com/ada"}
}`

func setup(store *mockStore, users ...*models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validate.Setup()
	r := gin.New()
	NewHandler(NewService(store), nil).RegisterRoutes(r.Group("/api/v1"), guardtest.Guard(users...))
	return r
}

func send(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateProfile(t *testing.T) {
	student := guardtest.NewUser(models.RoleStudent)
	store := &mockStore{}
	store.On("Insert", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.User == student.ID && p.Photo == models.DefaultPhoto &&
			p.Education.FieldOfStudy == "CS" && p.Experience.Company == "Acme" && len(p.Skills) == 2
	})).Return(nil)

	w, body := send(setup(store, student), guardtest.SignAs(jsonRequest(http.MethodPost, "/api/v1/auth/profiles", validProfile), student))
	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, student.ID.Hex(), data["user"])
	store.AssertExpectations(t)
}

func TestCreateSecondProfileConflicts(t *testing.T) {
	student := guardtest.NewUser(models.RoleStudent)
	store := &mockStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(apperr.Conflict("Duplicate field value entered"))

	w, body := send(setup(store, student), guardtest.SignAs(jsonRequest(http.MethodPost, "/api/v1/auth/profiles", validProfile), student))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User "+student.ID.Hex()+" already has a profile", body["error"])
}

func TestCreateProfileValidation(t *testing.T) {
	student := guardtest.NewUser(models.RoleStudent)
	body := `{"skills": [], "website": "not a url", "experience": {"title": "x", "company": "y", "from": "2022-06-01T00:00:00Z"},
		"education": {"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2019-09-01T00:00:00Z"}}`

	w, out := send(setup(&mockStore{}, student), guardtest.SignAs(jsonRequest(http.MethodPost, "/api/v1/auth/profiles", body), student))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out["error"], "Please use a valid URL with HTTP or HTTPS")
	assert.Contains(t, out["error"], "skills")
}

func TestDeleteByNonOwner(t *testing.T) {
	owner := guardtest.NewUser(models.RoleStudent)
	other := guardtest.NewUser(models.RoleStudent)
	p := &models.Profile{User: owner.ID}
	p.Init()
	store := &mockStore{}
	store.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	w, _ := send(setup(store, owner, other), guardtest.SignAs(httptest.NewRequest(http.MethodDelete, "/api/v1/auth/profiles/"+p.ID.Hex(), nil), other))
	assert.Equal(t, http.StatusForbidden, w.Code)
	store.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestUpdateByOwner(t *testing.T) {
	owner := guardtest.NewUser(models.RoleStudent)
	p := &models.Profile{User: owner.ID}
	p.Init()
	store := &mockStore{}
	store.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	store.On("UpdateByID", mock.Anything, p.ID, bson.M{"bio": "hello", "skills": []string{"rust"}}).Return(p, nil)

	w, _ := send(setup(store, owner), guardtest.SignAs(jsonRequest(http.MethodPut, "/api/v1/auth/profiles/"+p.ID.Hex(), `{"bio":"hello","skills":["rust"]}`), owner))
	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}
