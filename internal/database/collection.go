package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/query"
)

// Collection is the persistence façade for one document type.
type Collection[T any] struct {
	coll  *mongo.Collection
	label string
}

// NewCollection binds T to the named collection. label names the resource in error messages.
func NewCollection[T any](db *mongo.Database, name, label string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), label: label}
}

// Insert stores doc as-is; callers assign the id first.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var out T
	err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, c.notFound(id)
	}
	if err != nil {
		return nil, c.mapError(err)
	}
	return &out, nil
}

// FindOne returns the first document matching filter.
func (c *Collection[T]) FindOne(ctx context.Context, filter bson.D) (*T, error) {
	var out T
	err := c.coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("%s not found", c.label)
	}
	if err != nil {
		return nil, c.mapError(err)
	}
	return &out, nil
}

// UpdateByID $sets fields and returns the updated document.
func (c *Collection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*T, error) {
	if len(fields) == 0 {
		return c.FindByID(ctx, id)
	}
	return c.Apply(ctx, id, bson.D{{Key: "$set", Value: fields}})
}

// Apply runs an arbitrary update document against one row and returns the result.
func (c *Collection[T]) Apply(ctx context.Context, id primitive.ObjectID, update bson.D) (*T, error) {
	var out T
	err := c.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, c.notFound(id)
	}
	if err != nil {
		return nil, c.mapError(err)
	}
	return &out, nil
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return c.mapError(err)
	}
	if res.DeletedCount == 0 {
		return c.notFound(id)
	}
	return nil
}

func (c *Collection[T]) DeleteMany(ctx context.Context, filter bson.D) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, c.mapError(err)
	}
	return res.DeletedCount, nil
}

// List runs a parsed list request, expanding relations on the returned page.
func (c *Collection[T]) List(ctx context.Context, spec query.Spec, relations ...query.Relation) (*query.Result, error) {
	res, err := query.Run(ctx, c.coll, spec, relations...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (c *Collection[T]) notFound(id primitive.ObjectID) error {
	return apperr.NotFound("%s not found with id %s", c.label, id.Hex())
}

func (c *Collection[T]) mapError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("Duplicate field value entered")
	}
	return apperr.Internal(fmt.Errorf("%s: %w", c.coll.Name(), err))
}

// ParseID converts a path parameter to an ObjectID.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("Invalid id %s", raw)
	}
	return id, nil
}
