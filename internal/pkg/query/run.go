package query

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Relation expands a reference inline, like a populate.
// LocalField defaults to Path and ForeignField to _id; Many keeps an array
// (reverse references) instead of unwinding to a single document.
type Relation struct {
	Path         string
	From         string
	LocalField   string
	ForeignField string
	Many         bool
	Select       []string
}

// Result is one page of rows plus pagination metadata.
type Result struct {
	Count      int
	Pagination Pagination
	Data       []bson.M
}

func (r Relation) stages() []bson.D {
	local := r.LocalField
	if local == "" {
		local = r.Path
	}
	foreign := r.ForeignField
	if foreign == "" {
		foreign = "_id"
	}

	inner := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{"$" + foreign, "$$ref"}},
		}}}}},
	}
	if len(r.Select) > 0 {
		proj := bson.D{{Key: "_id", Value: 1}}
		for _, f := range r.Select {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		inner = append(inner, bson.D{{Key: "$project", Value: proj}})
	}

	stages := []bson.D{{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: r.From},
		{Key: "let", Value: bson.D{{Key: "ref", Value: "$" + local}}},
		{Key: "pipeline", Value: inner},
		{Key: "as", Value: r.Path},
	}}}}
	if !r.Many {
		stages = append(stages, bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + r.Path},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}})
	}
	return stages
}

// Pipeline renders the aggregation for spec: match, sort, page, expand, project.
func Pipeline(spec Spec, relations ...Relation) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: spec.Filter()}},
		{{Key: "$sort", Value: spec.SortDoc()}},
	}
	if skip := spec.Skip(); skip > 0 {
		p = append(p, bson.D{{Key: "$skip", Value: skip}})
	}
	p = append(p, bson.D{{Key: "$limit", Value: int64(spec.Limit)}})
	for _, r := range relations {
		p = append(p, r.stages()...)
	}
	if proj := spec.Projection(); proj != nil {
		p = append(p, bson.D{{Key: "$project", Value: proj}})
	}
	return p
}

// Run executes spec against coll. The total used for pagination counts rows matching the filter.
func Run(ctx context.Context, coll *mongo.Collection, spec Spec, relations ...Relation) (*Result, error) {
	total, err := coll.CountDocuments(ctx, spec.Filter())
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", coll.Name(), err)
	}

	cur, err := coll.Aggregate(ctx, Pipeline(spec, relations...))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", coll.Name(), err)
	}
	data := make([]bson.M, 0, spec.Limit)
	if err := cur.All(ctx, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}

	return &Result{
		Count:      len(data),
		Pagination: Paginate(spec.Page, spec.Limit, total),
		Data:       data,
	}, nil
}
