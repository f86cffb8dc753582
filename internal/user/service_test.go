package user

import (
	"context"
	"testing"
	"time"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	created []string
	deleted []string
	err     error
}

func (m *mockProducer) PublishCreated(email, correlationID string) error {
	m.created = append(m.created, email)
	return m.err
}

func (m *mockProducer) PublishDeleted(email, correlationID string) error {
	m.deleted = append(m.deleted, email)
	return m.err
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *mockProducer) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	producer := &mockProducer{}
	return NewService(NewStore(db), producer), mock, producer
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	svc, mock, producer := newTestService(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("ibra@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users \(name, email, age\) VALUES \(\$1, \$2, \$3\) RETURNING id, created_at`).
		WithArgs("Ibra", "ibra@example.com", 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:  "Ibra",
		Email: "ibra@example.com",
		Age:   intPtr(25),
	}, "corr-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Ibra", resp.Name)
	assert.Equal(t, "ibra@example.com", resp.Email)
	assert.Equal(t, 25, resp.Age)
	assert.WithinDuration(t, now, resp.CreatedAt, time.Second)

	require.Len(t, producer.created, 1)
	assert.Equal(t, "ibra@example.com", producer.created[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, mock, producer := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:  "Someone",
		Email: "taken@example.com",
		Age:   intPtr(30),
	}, "corr-1")

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Empty(t, producer.created, "no event for a failed create")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AgeOutOfRange(t *testing.T) {
	svc, mock, producer := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("old@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:  "Methuselah",
		Email: "old@example.com",
		Age:   intPtr(121),
	}, "corr-1")

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, producer.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_PublishFailureAfterCommit(t *testing.T) {
	svc, mock, producer := newTestService(t)
	producer.err = ErrPublish

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("ibra@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ibra", "ibra@example.com", 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectCommit()

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:  "Ibra",
		Email: "ibra@example.com",
		Age:   intPtr(25),
	}, "corr-1")

	// The insert is committed; only the publish step failed
	assert.ErrorIs(t, err, ErrPublish)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(`SELECT id, name, email, age, created_at FROM users WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age", "created_at"}))

	_, err := svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyStoreYieldsEmptyList(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(`SELECT id, name, email, age, created_at FROM users ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age", "created_at"}))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_SingleFieldOnly(t *testing.T) {
	svc, mock, producer := newTestService(t)
	created := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, name, email, age, created_at FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age", "created_at"}).
			AddRow(int64(1), "Ibra", "ibra@example.com", 25, created))
	mock.ExpectExec(`UPDATE users SET name = \$1, email = \$2, age = \$3 WHERE id = \$4`).
		WithArgs("Ibra", "ibra@example.com", 30, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Update(context.Background(), 1, models.UpdateUserRequest{Age: intPtr(30)})

	require.NoError(t, err)
	assert.Equal(t, "Ibra", resp.Name, "name must be untouched")
	assert.Equal(t, "ibra@example.com", resp.Email, "email must be untouched")
	assert.Equal(t, 30, resp.Age)
	assert.Equal(t, created, resp.CreatedAt, "createdAt must never change")
	assert.Empty(t, producer.created, "updates publish no events")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_EmptyPatch(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), 1, models.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_EmailTakenByOther(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1 AND id <> \$2\)`).
		WithArgs("other@example.com", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), 1, models.UpdateUserRequest{Email: strPtr("other@example.com")})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_IdentityEmailAllowed(t *testing.T) {
	svc, mock, _ := newTestService(t)
	created := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	// The existence check excludes the record's own id, so re-submitting
	// the current email is not a conflict.
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1 AND id <> \$2\)`).
		WithArgs("ibra@example.com", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT id, name, email, age, created_at FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age", "created_at"}).
			AddRow(int64(1), "Ibra", "ibra@example.com", 25, created))
	mock.ExpectExec(`UPDATE users SET name = \$1, email = \$2, age = \$3 WHERE id = \$4`).
		WithArgs("Ibra", "ibra@example.com", 25, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Update(context.Background(), 1, models.UpdateUserRequest{Email: strPtr("ibra@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "ibra@example.com", resp.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, name, email, age, created_at FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age", "created_at"}))
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), 404, models.UpdateUserRequest{Age: intPtr(30)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_PublishesCapturedEmail(t *testing.T) {
	svc, mock, producer := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, name, email, age, created_at FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age", "created_at"}).
			AddRow(int64(1), "Ibra", "ibra@example.com", 25, time.Now()))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), 1, "corr-9")

	require.NoError(t, err)
	require.Len(t, producer.deleted, 1)
	assert.Equal(t, "ibra@example.com", producer.deleted[0], "event carries the email captured before deletion")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	svc, mock, producer := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, name, email, age, created_at FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age", "created_at"}))
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), 404, "corr-9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, producer.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
