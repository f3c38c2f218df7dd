package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPhoto is stored on photo-bearing documents until an upload replaces it.
const DefaultPhoto = "no-photo.jpg"

// Base is embedded in every document.
// ID is a MongoDB ObjectID, serialised as its hex string under "_id".
type Base struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Init assigns a fresh ObjectID and creation time when they are unset.
func (b *Base) Init() {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
}
