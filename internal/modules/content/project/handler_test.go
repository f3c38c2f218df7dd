package project

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

func (m *mockStore) Insert(ctx context.Context, doc *models.Project) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockStore) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Project, error) {
	args := m.Called(ctx, id, fields)
	p, _ := args.Get(0).(*models.Project)
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

type mockCategories struct{ mock.Mock }

func (m *mockCategories) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

type mockReviews struct{ mock.Mock }

func (m *mockReviews) DeleteMany(ctx context.Context, filter bson.D) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	store      *mockStore
	categories *mockCategories
	reviews    *mockReviews
	router     *gin.Engine
	owner      *models.User
	other      *models.User
	instructor *models.User
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	validate.Setup()
	f := &fixture{
		store:      &mockStore{},
		categories: &mockCategories{},
		reviews:    &mockReviews{},
		owner:      guardtest.NewUser(models.RoleStudent),
		other:      guardtest.NewUser(models.RoleStudent),
		instructor: guardtest.NewUser(models.RoleInstructor),
	}
	f.router = gin.New()
	svc := NewService(f.store, f.categories, f.reviews)
	NewHandler(svc, nil).RegisterRoutes(f.router.Group("/api/v1"), guardtest.Guard(f.owner, f.other, f.instructor))
	return f
}

func (f *fixture) project() *models.Project {
	p := &models.Project{Title: "Portfolio", Description: "site", User: f.owner.ID, Category: primitive.NewObjectID()}
	p.Init()
	return p
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
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

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	f := newFixture()
	p := f.project()
	f.store.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	req := guardtest.SignAs(jsonRequest(http.MethodPut, "/api/v1/projects/"+p.ID.Hex(), `{"title":"Hijacked"}`), f.other)
	w, body := serve(f.router, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["success"])
	f.store.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateByOwner(t *testing.T) {
	f := newFixture()
	p := f.project()
	updated := *p
	updated.Title = "Renamed"
	f.store.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.store.On("UpdateByID", mock.Anything, p.ID, bson.M{"title": "Renamed"}).Return(&updated, nil)

	req := guardtest.SignAs(jsonRequest(http.MethodPut, "/api/v1/projects/"+p.ID.Hex(), `{"title":"Renamed"}`), f.owner)
	w, body := serve(f.router, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", body["data"].(map[string]interface{})["title"])
}

func TestUpdateRejectsBadURL(t *testing.T) {
	f := newFixture()
	p := f.project()

	req := guardtest.SignAs(jsonRequest(http.MethodPut, "/api/v1/projects/"+p.ID.Hex(), `{"url":"ftp://nope"}`), f.owner)
	w, body := serve(f.router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please use a valid URL with HTTP or HTTPS", body["error"])
}

func TestCreateUnderMissingCategory(t *testing.T) {
	f := newFixture()
	catID := primitive.NewObjectID()
	f.categories.On("FindByID", mock.Anything, catID).Return(nil, apperr.NotFound("Category not found with id %s", catID.Hex()))

	req := guardtest.SignAs(jsonRequest(http.MethodPost, "/api/v1/categories/"+catID.Hex()+"/projects", `{"title":"T","description":"D"}`), f.owner)
	w, _ := serve(f.router, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateRequiresStudent(t *testing.T) {
	f := newFixture()
	req := guardtest.SignAs(jsonRequest(http.MethodPost, "/api/v1/categories/"+primitive.NewObjectID().Hex()+"/projects", `{"title":"T","description":"D"}`), f.instructor)
	w, _ := serve(f.router, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateInjectsCategoryAndOwner(t *testing.T) {
	f := newFixture()
	catID := primitive.NewObjectID()
	f.categories.On("FindByID", mock.Anything, catID).Return(&models.Category{}, nil)
	f.store.On("Insert", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
		return p.Category == catID && p.User == f.owner.ID && p.Photo == models.DefaultPhoto
	})).Return(nil)

	req := guardtest.SignAs(jsonRequest(http.MethodPost, "/api/v1/categories/"+catID.Hex()+"/projects", `{"title":"T","description":"D","url":"https://example.com"}`), f.owner)
	w, _ := serve(f.router, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	f.store.AssertExpectations(t)
}

func TestDeleteCascadesReviews(t *testing.T) {
	f := newFixture()
	p := f.project()
	f.store.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.store.On("DeleteByID", mock.Anything, p.ID).Return(nil)
	f.reviews.On("DeleteMany", mock.Anything, bson.D{{Key: "project", Value: p.ID}}).Return(int64(2), nil)

	w, _ := serve(f.router, guardtest.SignAs(httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+p.ID.Hex(), nil), f.owner))

	assert.Equal(t, http.StatusOK, w.Code)
	f.reviews.AssertExpectations(t)
}

func TestNestedListScopesByCategory(t *testing.T) {
	f := newFixture()
	catID := primitive.NewObjectID()
	f.store.On("List", mock.Anything, mock.MatchedBy(func(s query.Spec) bool {
		return len(s.Conditions) == 2 &&
			s.Conditions[0] == query.Condition{Field: "category", Op: query.Eq, Value: catID} &&
			s.Conditions[1].Field == "favorite"
	})).Return(&query.Result{Data: []bson.M{}}, nil)

	w, _ := serve(f.router, httptest.NewRequest(http.MethodGet, "/api/v1/categories/"+catID.Hex()+"/projects?favorite=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	f.store.AssertExpectations(t)
}
