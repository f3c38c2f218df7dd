package category

import "github.com/projecthub/api/internal/pkg/query"

type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=50"`
}

type UpdateCategoryDTO struct {
	Name *string `json:"name" binding:"omitempty,max=50"`
}

// Schema lists the fields categories can be filtered, sorted and selected by.
var Schema = query.Schema{Fields: map[string]query.Kind{
	"_id":       query.ObjectID,
	"name":      query.String,
	"slug":      query.String,
	"photo":     query.String,
	"createdAt": query.Time,
}}
