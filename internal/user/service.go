package user

import (
	"context"
	"log"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"
)

// Producer publishes lifecycle events for the service. EventProducer is
// the production implementation.
type Producer interface {
	PublishCreated(email, correlationID string) error
	PublishDeleted(email, correlationID string) error
}

// Service orchestrates the user lifecycle: validate, convert, persist,
// and publish. Each operation runs in one store transaction; events are
// published only after the transaction commits, so a publish failure
// never rolls back a committed mutation.
type Service struct {
	store    *Store
	producer Producer
}

// NewService creates a service over the given store and event producer.
func NewService(store *Store, producer Producer) *Service {
	return &Service{store: store, producer: producer}
}

// Create validates the request, persists a new record and publishes a
// create event. A publish failure surfaces as ErrPublish even though the
// record is already committed.
func (s *Service) Create(ctx context.Context, req models.CreateUserRequest, correlationID string) (models.UserResponse, error) {
	log.Printf("[UserService] Creating user email=%s correlation_id=%s", req.Email, correlationID)

	var created models.User
	err := s.store.InTx(ctx, func(tx *Store) error {
		if err := validateCreate(ctx, tx, req); err != nil {
			return err
		}
		created = toRecord(req)
		return tx.Insert(ctx, &created)
	})
	if err != nil {
		return models.UserResponse{}, err
	}

	log.Printf("[UserService] User created id=%d correlation_id=%s", created.ID, correlationID)

	if err := s.producer.PublishCreated(created.Email, correlationID); err != nil {
		return models.UserResponse{}, err
	}
	return toResponse(created), nil
}

// GetByID returns the record with the given id.
func (s *Service) GetByID(ctx context.Context, id int64) (models.UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.UserResponse{}, err
	}
	return toResponse(u), nil
}

// List returns every record, newest first. An empty store yields an
// empty list.
func (s *Service) List(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	return out, nil
}

// Update applies the present fields of the patch to an existing record.
// No event is published for updates.
func (s *Service) Update(ctx context.Context, id int64, patch models.UpdateUserRequest) (models.UserResponse, error) {
	log.Printf("[UserService] Updating user id=%d", id)

	var updated models.User
	err := s.store.InTx(ctx, func(tx *Store) error {
		if err := validateUpdate(ctx, tx, id, patch); err != nil {
			return err
		}
		u, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := applyPatch(&u, patch); err != nil {
			return err
		}
		if err := tx.Update(ctx, &u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return models.UserResponse{}, err
	}

	log.Printf("[UserService] User updated id=%d", id)
	return toResponse(updated), nil
}

// Delete removes the record and publishes a delete event carrying the
// email captured before deletion.
func (s *Service) Delete(ctx context.Context, id int64, correlationID string) error {
	log.Printf("[UserService] Deleting user id=%d correlation_id=%s", id, correlationID)

	var deleted models.User
	err := s.store.InTx(ctx, func(tx *Store) error {
		u, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		deleted = u
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[UserService] User deleted id=%d correlation_id=%s", id, correlationID)
	return s.producer.PublishDeleted(deleted.Email, correlationID)
}
