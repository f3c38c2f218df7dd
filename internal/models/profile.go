package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the public portfolio page of a user (one per user).
type Profile struct {
	Base       `bson:",inline"`
	User       primitive.ObjectID `json:"user"              bson:"user"`
	Photo      string             `json:"photo"             bson:"photo"`
	Location   string             `json:"location,omitempty" bson:"location,omitempty"`
	Bio        string             `json:"bio,omitempty"     bson:"bio,omitempty"`
	Website    string             `json:"website,omitempty" bson:"website,omitempty"`
	Skills     []string           `json:"skills"            bson:"skills"`
	Experience Experience         `json:"experience"        bson:"experience"`
	Education  Education          `json:"education"         bson:"education"`
	Social     Social             `json:"social"            bson:"social"`
}

const ProfileCollection = "profiles"

type Experience struct {
	Title       string     `json:"title"                 bson:"title"`
	Company     string     `json:"company"               bson:"company"`
	Location    string     `json:"location,omitempty"    bson:"location,omitempty"`
	From        time.Time  `json:"from"                  bson:"from"`
	To          *time.Time `json:"to,omitempty"          bson:"to,omitempty"`
	Current     bool       `json:"current"               bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	School       string     `json:"school"                bson:"school"`
	Degree       string     `json:"degree"                bson:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"          bson:"fieldofstudy"`
	From         time.Time  `json:"from"                  bson:"from"`
	To           *time.Time `json:"to,omitempty"          bson:"to,omitempty"`
	Current      bool       `json:"current"               bson:"current"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty"   bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"   bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"  bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"  bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}
