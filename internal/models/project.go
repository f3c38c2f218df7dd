package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Project is a student submission inside a category.
type Project struct {
	Base          `bson:",inline"`
	Title         string             `json:"title"                   bson:"title"`
	Description   string             `json:"description"             bson:"description"`
	URL           string             `json:"url,omitempty"           bson:"url,omitempty"`
	Photo         string             `json:"photo"                   bson:"photo"`
	AverageRating *float64           `json:"averageRating,omitempty" bson:"averageRating,omitempty"`
	Favorite      bool               `json:"favorite"                bson:"favorite"`
	Category      primitive.ObjectID `json:"category"                bson:"category"`
	User          primitive.ObjectID `json:"user"                    bson:"user"`
}

const ProjectCollection = "projects"
