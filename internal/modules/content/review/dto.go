package review

import (
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/query"
)

type CreateReviewDTO struct {
	Title  string `json:"title"  binding:"required,max=100"`
	Text   string `json:"text"   binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
}

type UpdateReviewDTO struct {
	Title  *string `json:"title"  binding:"omitempty,max=100"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

var Schema = query.Schema{Fields: map[string]query.Kind{
	"_id":       query.ObjectID,
	"title":     query.String,
	"text":      query.String,
	"rating":    query.Number,
	"project":   query.ObjectID,
	"user":      query.ObjectID,
	"createdAt": query.Time,
}}

var Relations = []query.Relation{
	{Path: "user", From: models.UserCollection, Select: []string{"name"}},
	{Path: "project", From: models.ProjectCollection, Select: []string{"title", "description"}},
}
