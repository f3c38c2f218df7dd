package profile

import (
	"time"

	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/query"
)

type ExperienceDTO struct {
	Title       string     `json:"title"       binding:"required"`
	Company     string     `json:"company"     binding:"required"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"        binding:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

func (d ExperienceDTO) model() models.Experience {
	return models.Experience(d)
}

type EducationDTO struct {
	School       string     `json:"school"       binding:"required"`
	Degree       string     `json:"degree"       binding:"required"`
	FieldOfStudy string     `json:"fieldofstudy" binding:"required"`
	From         time.Time  `json:"from"         binding:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

func (d EducationDTO) model() models.Education {
	return models.Education(d)
}

type CreateProfileDTO struct {
	Location   string        `json:"location"`
	Bio        string        `json:"bio"`
	Website    string        `json:"website"    binding:"omitempty,httpurl"`
	Skills     []string      `json:"skills"     binding:"required,min=1"`
	Experience ExperienceDTO `json:"experience"`
	Education  EducationDTO  `json:"education"`
	Social     models.Social `json:"social"`
}

type UpdateProfileDTO struct {
	Location   *string        `json:"location"`
	Bio        *string        `json:"bio"`
	Website    *string        `json:"website"    binding:"omitempty,httpurl"`
	Skills     []string       `json:"skills"     binding:"omitempty,min=1"`
	Experience *ExperienceDTO `json:"experience"`
	Education  *EducationDTO  `json:"education"`
	Social     *models.Social `json:"social"`
}

var Schema = query.Schema{Fields: map[string]query.Kind{
	"_id":       query.ObjectID,
	"user":      query.ObjectID,
	"photo":     query.String,
	"location":  query.String,
	"bio":       query.String,
	"website":   query.String,
	"skills":    query.String,
	"createdAt": query.Time,
}}

var Relations = []query.Relation{
	{Path: "user", From: models.UserCollection, Select: []string{"name"}},
}
