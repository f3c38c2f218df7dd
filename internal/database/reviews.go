package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/apperr"
)

// Reviews adds rating statistics to the review collection.
type Reviews struct {
	*Collection[models.Review]
}

// AverageRating returns the mean rating of a project's reviews and how many there are.
func (r *Reviews) AverageRating(ctx context.Context, projectID primitive.ObjectID) (float64, int64, error) {
	cur, err := r.coll.Aggregate(ctx, bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "project", Value: projectID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$project"},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return 0, 0, apperr.Internal(fmt.Errorf("average rating: %w", err))
	}

	var rows []struct {
		AverageRating float64 `bson:"averageRating"`
		Count         int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, apperr.Internal(fmt.Errorf("average rating: %w", err))
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].AverageRating, rows[0].Count, nil
}
