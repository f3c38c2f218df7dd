package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var projectSchema = Schema{
	Fields: map[string]Kind{
		"title":         String,
		"averageRating": Number,
		"favorite":      Bool,
		"createdAt":     Time,
		"category":      ObjectID,
		"user":          ObjectID,
	},
}

func mustParse(t *testing.T, raw string, schema Schema) Spec {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	spec, err := Parse(values, schema)
	require.NoError(t, err)
	return spec
}

func TestParseDefaults(t *testing.T) {
	spec := mustParse(t, "", projectSchema)

	assert.Equal(t, DefaultPage, spec.Page)
	assert.Equal(t, DefaultLimit, spec.Limit)
	assert.Equal(t, []SortField{{Field: "createdAt", Desc: true}}, spec.Sort)
	assert.Equal(t, bson.D{}, spec.Filter())
	assert.Nil(t, spec.Projection())
	assert.Equal(t, int64(0), spec.Skip())
}

func TestParseReservedAreNotFilters(t *testing.T) {
	spec := mustParse(t, "select=title&sort=-createdAt&limit=2&page=3", projectSchema)

	assert.Empty(t, spec.Conditions)
	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 2, spec.Limit)
	assert.Equal(t, int64(4), spec.Skip())
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}, {Key: "title", Value: 1}}, spec.Projection())
}

func TestParseComparisonOperators(t *testing.T) {
	spec := mustParse(t, "averageRating[gte]=5&averageRating[lt]=9&favorite=true", projectSchema)

	assert.Equal(t, bson.D{
		{Key: "averageRating", Value: bson.D{{Key: "$gte", Value: 5.0}, {Key: "$lt", Value: 9.0}}},
		{Key: "favorite", Value: true},
	}, spec.Filter())
}

func TestParseInOperator(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	spec := mustParse(t, "category[in]="+a.Hex()+","+b.Hex(), projectSchema)

	require.Len(t, spec.Conditions, 1)
	assert.Equal(t, In, spec.Conditions[0].Op)
	assert.Equal(t, bson.D{{Key: "category", Value: bson.D{{Key: "$in", Value: []interface{}{a, b}}}}}, spec.Filter())
}

func TestParseRepeatedEqualityBecomesIn(t *testing.T) {
	spec := mustParse(t, "title=a&title=b", projectSchema)

	assert.Equal(t, bson.D{{Key: "title", Value: bson.D{{Key: "$in", Value: []interface{}{"a", "b"}}}}}, spec.Filter())
}

func TestParseRejectsUnknownFieldsAndOperators(t *testing.T) {
	for _, raw := range []string{
		"password=x",
		"title[$where]=1",
		"title[regex]=a",
		"select=password",
		"sort=-secret",
		"averageRating[gt]=lots",
		"category=not-an-id",
		"[gt]=1",
	} {
		values, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = Parse(values, projectSchema)
		assert.True(t, errors.Is(err, apperr.ErrValidation), raw)
	}
}

func TestParseSortOrder(t *testing.T) {
	spec := mustParse(t, "sort=title,-averageRating", projectSchema)

	assert.Equal(t, bson.D{
		{Key: "title", Value: 1},
		{Key: "averageRating", Value: -1},
		{Key: "_id", Value: -1},
	}, spec.SortDoc())
}

func TestParseLimitBounds(t *testing.T) {
	assert.Equal(t, MaxLimit, mustParse(t, "limit=5000", projectSchema).Limit)
	assert.Equal(t, DefaultLimit, mustParse(t, "limit=0", projectSchema).Limit)
	assert.Equal(t, DefaultPage, mustParse(t, "page=-2", projectSchema).Page)
	assert.Equal(t, DefaultPage, mustParse(t, "page=abc", projectSchema).Page)
}

func TestHiddenFieldsExcludedWithoutSelect(t *testing.T) {
	schema := Schema{Fields: map[string]Kind{"email": String, "createdAt": Time}, Hidden: []string{"password"}}

	assert.Equal(t, bson.D{{Key: "password", Value: 0}}, mustParse(t, "", schema).Projection())
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}, {Key: "email", Value: 1}}, mustParse(t, "select=email", schema).Projection())
}

func TestWhereScopesBeforeUserFilters(t *testing.T) {
	parent := primitive.NewObjectID()
	spec := mustParse(t, "favorite=false", projectSchema).Where("category", parent)

	assert.Equal(t, bson.D{
		{Key: "category", Value: parent},
		{Key: "favorite", Value: false},
	}, spec.Filter())
}

func TestPaginate(t *testing.T) {
	// N rows, limit L, page k: next iff k*L < N, prev iff k > 1.
	cases := []struct {
		page, limit int
		total       int64
		next, prev  bool
	}{
		{1, 10, 0, false, false},
		{1, 10, 10, false, false},
		{1, 10, 11, true, false},
		{2, 10, 11, false, true},
		{3, 2, 7, true, true},
		{4, 2, 7, false, true},
		{9, 2, 7, false, true},
	}
	for _, tc := range cases {
		p := Paginate(tc.page, tc.limit, tc.total)
		assert.Equal(t, tc.next, p.Next != nil, "next page=%d limit=%d total=%d", tc.page, tc.limit, tc.total)
		assert.Equal(t, tc.prev, p.Prev != nil, "prev page=%d limit=%d total=%d", tc.page, tc.limit, tc.total)
		if p.Next != nil {
			assert.Equal(t, PageRef{Page: tc.page + 1, Limit: tc.limit}, *p.Next)
		}
		if p.Prev != nil {
			assert.Equal(t, PageRef{Page: tc.page - 1, Limit: tc.limit}, *p.Prev)
		}
	}
}

func TestPipelineOrdersStages(t *testing.T) {
	spec := mustParse(t, "select=title&page=2&limit=5", projectSchema)
	p := Pipeline(spec,
		Relation{Path: "user", From: "users", Select: []string{"name", "email"}},
		Relation{Path: "reviews", From: "reviews", LocalField: "_id", ForeignField: "project", Many: true},
	)

	var ops []string
	for _, stage := range p {
		ops = append(ops, stage[0].Key)
	}
	assert.Equal(t, []string{"$match", "$sort", "$skip", "$limit", "$lookup", "$unwind", "$lookup", "$project"}, ops)
	assert.Equal(t, int64(5), p[2][0].Value)
}
