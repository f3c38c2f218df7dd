package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is an instructor's rating of a project. One per (project, user).
type Review struct {
	Base    `bson:",inline"`
	Title   string             `json:"title"   bson:"title"`
	Text    string             `json:"text"    bson:"text"`
	Rating  int                `json:"rating"  bson:"rating"`
	Project primitive.ObjectID `json:"project" bson:"project"`
	User    primitive.ObjectID `json:"user"    bson:"user"`
}

const ReviewCollection = "reviews"

const (
	MinRating = 1
	MaxRating = 10
)
