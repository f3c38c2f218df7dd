// Package query turns list query-string parameters into a typed MongoDB
// filter/sort/projection/pagination spec and runs it.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/projecthub/api/internal/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// DefaultSortField is used, descending, when no sort parameter is given.
	DefaultSortField = "createdAt"
)

var reserved = map[string]struct{}{
	"select": {},
	"sort":   {},
	"page":   {},
	"limit":  {},
}

// Kind is the declared type of a queryable field; filter values are coerced to it.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Time
	ObjectID
)

// Schema is the allowlist of fields a resource may be filtered, sorted and selected by.
// Hidden fields are never returned unless explicitly allowlisted and selected.
type Schema struct {
	Fields map[string]Kind
	Hidden []string
}

// Op is a comparison operator of the typed filter builder.
type Op int

const (
	Eq Op = iota
	Gt
	Gte
	Lt
	Lte
	In
)

var opsBySuffix = map[string]Op{
	"gt":  Gt,
	"gte": Gte,
	"lt":  Lt,
	"lte": Lte,
	"in":  In,
}

func (o Op) operator() string {
	switch o {
	case Gt:
		return "$gt"
	case Gte:
		return "$gte"
	case Lt:
		return "$lt"
	case Lte:
		return "$lte"
	case In:
		return "$in"
	default:
		return "$eq"
	}
}

// Condition is one typed filter term. For In, Value is a []interface{}.
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// SortField orders by Field, descending when Desc is set.
type SortField struct {
	Field string
	Desc  bool
}

// Spec is a parsed list request.
type Spec struct {
	Conditions []Condition
	Select     []string
	Sort       []SortField
	Page       int
	Limit      int

	hidden []string
}

// Parse builds a Spec from query-string values, validating every field against schema.
func Parse(values url.Values, schema Schema) (Spec, error) {
	spec := Spec{
		Page:   parsePositive(values.Get("page"), DefaultPage),
		Limit:  parsePositive(values.Get("limit"), DefaultLimit),
		hidden: schema.Hidden,
	}
	if spec.Limit > MaxLimit {
		spec.Limit = MaxLimit
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if _, ok := reserved[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, op, err := splitKey(key)
		if err != nil {
			return Spec{}, err
		}
		kind, ok := schema.Fields[field]
		if !ok {
			return Spec{}, apperr.Validation("Unknown filter field %q", field)
		}
		cond, err := buildCondition(field, op, kind, values[key])
		if err != nil {
			return Spec{}, err
		}
		spec.Conditions = append(spec.Conditions, cond)
	}

	if raw := strings.TrimSpace(values.Get("select")); raw != "" {
		for _, f := range splitList(raw) {
			f = normalizeField(f)
			if f == "_id" {
				continue
			}
			if _, ok := schema.Fields[f]; !ok {
				return Spec{}, apperr.Validation("Unknown select field %q", f)
			}
			spec.Select = append(spec.Select, f)
		}
	}

	if raw := strings.TrimSpace(values.Get("sort")); raw != "" {
		for _, f := range splitList(raw) {
			desc := strings.HasPrefix(f, "-")
			f = normalizeField(strings.TrimPrefix(f, "-"))
			if _, ok := schema.Fields[f]; !ok && f != "_id" {
				return Spec{}, apperr.Validation("Unknown sort field %q", f)
			}
			spec.Sort = append(spec.Sort, SortField{Field: f, Desc: desc})
		}
	}
	if len(spec.Sort) == 0 {
		spec.Sort = []SortField{{Field: DefaultSortField, Desc: true}}
	}
	return spec, nil
}

// Where scopes the spec to field == value (nested routes). The field is trusted and not allowlisted.
func (s Spec) Where(field string, value interface{}) Spec {
	conds := make([]Condition, 0, len(s.Conditions)+1)
	conds = append(conds, Condition{Field: field, Op: Eq, Value: value})
	s.Conditions = append(conds, s.Conditions...)
	return s
}

// Filter renders the conditions as a MongoDB filter document.
// Conditions on the same field are merged into one operator document.
func (s Spec) Filter() bson.D {
	filter := bson.D{}
	index := map[string]int{}
	for _, c := range s.Conditions {
		i, seen := index[c.Field]
		if !seen {
			if c.Op == Eq {
				filter = append(filter, bson.E{Key: c.Field, Value: c.Value})
			} else {
				filter = append(filter, bson.E{Key: c.Field, Value: bson.D{{Key: c.Op.operator(), Value: c.Value}}})
			}
			index[c.Field] = len(filter) - 1
			continue
		}
		ops, ok := filter[i].Value.(bson.D)
		if !ok {
			ops = bson.D{{Key: "$eq", Value: filter[i].Value}}
		}
		filter[i].Value = append(ops, bson.E{Key: c.Op.operator(), Value: c.Value})
	}
	return filter
}

// SortDoc renders the ordering, with _id as a final tie-breaker for stable pages.
func (s Spec) SortDoc() bson.D {
	doc := bson.D{}
	hasID := false
	lastDesc := true
	for _, f := range s.Sort {
		dir := 1
		if f.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: f.Field, Value: dir})
		hasID = hasID || f.Field == "_id"
		lastDesc = f.Desc
	}
	if !hasID {
		dir := 1
		if lastDesc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: "_id", Value: dir})
	}
	return doc
}

// Projection renders the field selection; nil means "return everything".
func (s Spec) Projection() bson.D {
	if len(s.Select) > 0 {
		doc := bson.D{{Key: "_id", Value: 1}}
		for _, f := range s.Select {
			doc = append(doc, bson.E{Key: f, Value: 1})
		}
		return doc
	}
	if len(s.hidden) == 0 {
		return nil
	}
	doc := bson.D{}
	for _, f := range s.hidden {
		doc = append(doc, bson.E{Key: f, Value: 0})
	}
	return doc
}

// Skip is the number of rows before the requested page.
func (s Spec) Skip() int64 {
	return int64(s.Page-1) * int64(s.Limit)
}

func buildCondition(field string, op Op, kind Kind, raw []string) (Condition, error) {
	switch {
	case op == In:
		var items []string
		for _, v := range raw {
			items = append(items, splitList(v)...)
		}
		return inCondition(field, kind, items)
	case op == Eq && len(raw) > 1:
		return inCondition(field, kind, raw)
	default:
		v, err := coerce(field, kind, raw[len(raw)-1])
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: field, Op: op, Value: v}, nil
	}
}

func inCondition(field string, kind Kind, items []string) (Condition, error) {
	values := make([]interface{}, 0, len(items))
	for _, item := range items {
		v, err := coerce(field, kind, item)
		if err != nil {
			return Condition{}, err
		}
		values = append(values, v)
	}
	return Condition{Field: field, Op: In, Value: values}, nil
}

func coerce(field string, kind Kind, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case Number:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperr.Validation("Invalid number %q for %s", raw, field)
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperr.Validation("Invalid boolean %q for %s", raw, field)
		}
		return b, nil
	case Time:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, apperr.Validation("Invalid date %q for %s", raw, field)
	case ObjectID:
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, apperr.Validation("Invalid id %q for %s", raw, field)
		}
		return id, nil
	default:
		return raw, nil
	}
}

// splitKey parses "field" or "field[op]".
func splitKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return normalizeField(key), Eq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", Eq, apperr.Validation("Malformed query parameter %q", key)
	}
	name := strings.ToLower(strings.TrimPrefix(key[open+1:len(key)-1], "$"))
	op, ok := opsBySuffix[name]
	if !ok {
		return "", Eq, apperr.Validation("Unsupported operator %q", name)
	}
	return normalizeField(key[:open]), op, nil
}

func normalizeField(f string) string {
	f = strings.TrimSpace(f)
	if f == "id" {
		return "_id"
	}
	return f
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePositive(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return def
	}
	return v
}
