// Package rating keeps a project's averageRating in step with its reviews.
package rating

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/projecthub/api/internal/models"
)

type ReviewStats interface {
	AverageRating(ctx context.Context, projectID primitive.ObjectID) (float64, int64, error)
}

type ProjectWriter interface {
	Apply(ctx context.Context, id primitive.ObjectID, update bson.D) (*models.Project, error)
}

// Aggregator recomputes averageRating after review writes.
type Aggregator struct {
	reviews  ReviewStats
	projects ProjectWriter
	log      *zap.Logger
}

func NewAggregator(reviews ReviewStats, projects ProjectWriter, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{reviews: reviews, projects: projects, log: log}
}

// Recompute sets the project's averageRating to the mean of its current reviews,
// or unsets it when none remain. Errors are logged, never returned.
func (a *Aggregator) Recompute(ctx context.Context, projectID primitive.ObjectID) {
	avg, count, err := a.reviews.AverageRating(ctx, projectID)
	if err != nil {
		a.log.Warn("average rating aggregation failed",
			zap.String("project", projectID.Hex()),
			zap.Error(err),
		)
		return
	}

	update := bson.D{{Key: "$unset", Value: bson.D{{Key: "averageRating", Value: ""}}}}
	if count > 0 {
		update = bson.D{{Key: "$set", Value: bson.D{{Key: "averageRating", Value: avg}}}}
	}
	if _, err := a.projects.Apply(ctx, projectID, update); err != nil {
		a.log.Warn("average rating write failed",
			zap.String("project", projectID.Hex()),
			zap.Error(err),
		)
	}
}
