package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists user records in PostgreSQL. Methods run against the
// bound querier, which is either the root *sql.DB or, inside InTx, a
// single transaction.
type Store struct {
	q    querier
	root *sql.DB
}

// NewStore creates a store bound to the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{q: db, root: db}
}

// InTx runs fn against a store view bound to one transaction. The
// transaction is committed if fn returns nil and rolled back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	tx, err := s.root.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&Store{q: tx, root: s.root}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Insert persists a new record. The store assigns id and created_at and
// writes them back into u.
func (s *Store) Insert(ctx context.Context, u *models.User) error {
	err := s.q.QueryRowContext(ctx,
		"INSERT INTO users (name, email, age) VALUES ($1, $2, $3) RETURNING id, created_at",
		u.Name, u.Email, u.Age,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		// Backstop for the concurrent-create race the app-level check
		// cannot see.
		return ErrDuplicateEmail
	}
	return err
}

// GetByID fetches one record; ErrNotFound if the id does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, email, age, created_at FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// List returns every record, newest first. An empty table yields an
// empty slice, never nil.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT id, name, email, age, created_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update saves the mutable fields of an existing record.
func (s *Store) Update(ctx context.Context, u *models.User) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE users SET name = $1, email = $2, age = $3 WHERE id = $4",
		u.Name, u.Email, u.Age, u.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record by id; ErrNotFound if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// EmailExists reports whether any record uses the given email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists)
	return exists, err
}

// EmailUsedByOther reports whether a record other than id uses the email.
// An identity update (same record keeping its own email) is not a conflict.
func (s *Store) EmailUsedByOther(ctx context.Context, email string, id int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)", email, id,
	).Scan(&exists)
	return exists, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
