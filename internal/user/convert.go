package user

import (
	"errors"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"
)

var errNilRecord = errors.New("nil user record")

// toRecord builds a new record from a create request. ID and CreatedAt
// stay zero; the store assigns them on insert.
func toRecord(req models.CreateUserRequest) models.User {
	u := models.User{
		Name:  req.Name,
		Email: req.Email,
	}
	if req.Age != nil {
		u.Age = *req.Age
	}
	return u
}

// toResponse projects a record into the client-facing shape.
func toResponse(u models.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
	}
}

// applyPatch overwrites only the fields present in the patch. ID and
// CreatedAt are never touched.
func applyPatch(u *models.User, patch models.UpdateUserRequest) error {
	if u == nil {
		return errNilRecord
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Age != nil {
		u.Age = *patch.Age
	}
	return nil
}
