// Package database owns the MongoDB connection and the typed collection façade.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/projecthub/api/internal/models"
)

// Mongo is an open client bound to the application database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens a MongoDB connection, verifies it and ensures indexes.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		// nested documents from $lookup decode to bson.M, which marshals to JSON objects
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("index bootstrap failed: %w", err)
	}
	return &Mongo{Client: client, DB: db}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes the API relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}

	indexes := map[string][]mongo.IndexModel{
		models.CategoryCollection: {unique(bson.D{{Key: "name", Value: 1}})},
		models.UserCollection:     {unique(bson.D{{Key: "email", Value: 1}})},
		models.ProfileCollection:  {unique(bson.D{{Key: "user", Value: 1}})},
		models.ReviewCollection:   {unique(bson.D{{Key: "project", Value: 1}, {Key: "user", Value: 1}})},
		models.ProjectCollection: {
			plain(bson.D{{Key: "category", Value: 1}}),
			plain(bson.D{{Key: "user", Value: 1}}),
		},
	}
	for name, list := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, list); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Store groups the typed collections of every resource.
type Store struct {
	Categories *Collection[models.Category]
	Projects   *Collection[models.Project]
	Reviews    *Reviews
	Profiles   *Collection[models.Profile]
	Users      *Collection[models.User]
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Categories: NewCollection[models.Category](db, models.CategoryCollection, "Category"),
		Projects:   NewCollection[models.Project](db, models.ProjectCollection, "Project"),
		Reviews:    &Reviews{Collection: NewCollection[models.Review](db, models.ReviewCollection, "Review")},
		Profiles:   NewCollection[models.Profile](db, models.ProfileCollection, "Profile"),
		Users:      NewCollection[models.User](db, models.UserCollection, "User"),
	}
}
