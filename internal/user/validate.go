package user

import (
	"context"
	"fmt"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"
)

const (
	minAge = 0
	maxAge = 120
)

// validateCreate rejects a create request whose email is already taken or
// whose age falls outside [0, 120]. The age check duplicates the DTO-level
// constraint on purpose: the service must hold even for callers that
// bypass the HTTP binding.
func validateCreate(ctx context.Context, st *Store, req models.CreateUserRequest) error {
	exists, err := st.EmailExists(ctx, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateEmail
	}
	if req.Age != nil && (*req.Age < minAge || *req.Age > maxAge) {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidArgument, minAge, maxAge)
	}
	return nil
}

// validateUpdate rejects an empty patch, an out-of-range age, and an email
// already used by a different record. Re-submitting the record's own email
// is not a conflict.
func validateUpdate(ctx context.Context, st *Store, id int64, patch models.UpdateUserRequest) error {
	if patch.Empty() {
		return fmt.Errorf("%w: at least one field must be provided", ErrInvalidArgument)
	}
	if patch.Age != nil && (*patch.Age < minAge || *patch.Age > maxAge) {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidArgument, minAge, maxAge)
	}
	if patch.Email != nil {
		taken, err := st.EmailUsedByOther(ctx, *patch.Email, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
	}
	return nil
}
