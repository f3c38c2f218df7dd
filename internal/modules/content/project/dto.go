package project

import (
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/query"
)

type CreateProjectDTO struct {
	Title       string `json:"title"       binding:"required"`
	Description string `json:"description" binding:"required"`
	URL         string `json:"url"         binding:"omitempty,httpurl"`
	Favorite    bool   `json:"favorite"`
}

type UpdateProjectDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"      binding:"omitempty,httpurl"`
	Favorite    *bool   `json:"favorite"`
}

var Schema = query.Schema{Fields: map[string]query.Kind{
	"_id":           query.ObjectID,
	"title":         query.String,
	"description":   query.String,
	"url":           query.String,
	"photo":         query.String,
	"averageRating": query.Number,
	"favorite":      query.Bool,
	"category":      query.ObjectID,
	"user":          query.ObjectID,
	"createdAt":     query.Time,
}}

// Relations expanded on project lists.
var Relations = []query.Relation{
	{Path: "user", From: models.UserCollection, Select: []string{"name", "email"}},
	{Path: "category", From: models.CategoryCollection, Select: []string{"name"}},
	{Path: "reviews", From: models.ReviewCollection, LocalField: "_id", ForeignField: "project", Many: true, Select: []string{"title", "text", "rating"}},
}
