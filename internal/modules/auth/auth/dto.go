package auth

type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role"     binding:"omitempty,oneof=student instructor"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
