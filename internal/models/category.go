package models

// Category groups projects.
type Category struct {
	Base  `bson:",inline"`
	Name  string `json:"name"  bson:"name"`
	Slug  string `json:"slug"  bson:"slug"`
	Photo string `json:"photo" bson:"photo"`
}

const CategoryCollection = "categories"
