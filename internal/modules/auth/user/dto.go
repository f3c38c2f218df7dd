package user

import (
	"github.com/projecthub/api/internal/pkg/query"
)

type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role"     binding:"omitempty,oneof=student instructor admin"`
}

type UpdateUserDTO struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Role     *string `json:"role"     binding:"omitempty,oneof=student instructor admin"`
}

// Schema never exposes password: it is neither queryable nor returned.
var Schema = query.Schema{
	Fields: map[string]query.Kind{
		"_id":       query.ObjectID,
		"name":      query.String,
		"email":     query.String,
		"role":      query.String,
		"createdAt": query.Time,
	},
	Hidden: []string{"password"},
}
