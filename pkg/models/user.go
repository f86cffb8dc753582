package models

import "time"

// User represents a user record in the system. ID and CreatedAt are
// assigned by the store and never change afterwards.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Age       int       `json:"age" db:"age"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateUserRequest is the request body for creating a user.
// Age is a pointer so that a legitimate value of 0 still passes the
// required check.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=50" example:"John Doe"`
	Email string `json:"email" binding:"required,email" example:"john@example.com"`
	Age   *int   `json:"age" binding:"required,gte=0,lte=120" example:"25"`
}

// UpdateUserRequest is the request body for partially updating a user.
// Every field is optional; a field left out of the JSON body stays nil
// and the corresponding record field is left untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=2,max=50" example:"John Doe"`
	Email *string `json:"email,omitempty" binding:"omitempty,email" example:"john@example.com"`
	Age   *int    `json:"age,omitempty" binding:"omitempty,gte=0,lte=120" example:"30"`
}

// Empty reports whether the patch carries no fields at all.
func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Age == nil
}

// UserResponse is the projection of a user record returned to clients.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
}
