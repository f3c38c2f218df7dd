package models

// Role gates create/administer operations.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User is an identity record. Password holds the bcrypt hash and is never serialised.
type User struct {
	Base     `bson:",inline"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Email    string `json:"email"          bson:"email"`
	Role     Role   `json:"role"           bson:"role"`
	Password string `json:"-"              bson:"password"`
}

const UserCollection = "users"
