package models

// User is a registered customer. Email is unique per user.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"min=0,max=150"`
}

// ToUser converts the request into a User
func (r *CreateUserRequest) ToUser() User {
	return User{Name: r.Name, Email: r.Email, Age: r.Age}
}
