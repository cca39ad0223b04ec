package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawwee/hng11-stage-two/internal/identity"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestUserByID(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	cols := []string{"user_id", "email", "password_hash", "first_name", "last_name", "phone"}
	mock.ExpectQuery("SELECT user_id, email, password_hash, first_name, last_name, phone").
		WithArgs("UID_aliceexamplecom").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("UID_aliceexamplecom", "alice@example.com", "$2a$10$hash", "Alice", "Doe", nil))

	user, err := s.UserByID(context.Background(), "UID_aliceexamplecom")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Empty(t, user.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByEmailNotFound(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT user_id, email, password_hash, first_name, last_name, phone").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.UserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, identity.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUser(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("UID_a", "a@x.io", "hash", "A", "B", sql.NullString{String: "123", Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.InsertUser(context.Background(), &identity.User{
		UserID: "UID_a", Email: "a@x.io", PasswordHash: "hash",
		FirstName: "A", LastName: "B", Phone: "123",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUserUniqueViolation(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.InsertUser(context.Background(), &identity.User{UserID: "UID_a", Email: "a@x.io"})
	assert.ErrorIs(t, err, identity.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganisationByID(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT org_id, name, description FROM organisations").
		WithArgs("ORG_1").
		WillReturnRows(sqlmock.NewRows([]string{"org_id", "name", "description"}).
			AddRow("ORG_1", "Acme", "desc"))

	org, err := s.OrganisationByID(context.Background(), "ORG_1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, "desc", org.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMembershipDuplicate(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO members").
		WithArgs("UID_a", "ORG_1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.InsertMembership(context.Background(), "UID_a", "ORG_1")
	assert.ErrorIs(t, err, identity.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganisationsByUser(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT org_id FROM members").
		WithArgs("UID_a").
		WillReturnRows(sqlmock.NewRows([]string{"org_id"}).AddRow("ORG_1").AddRow("ORG_2"))

	orgs, err := s.OrganisationsByUser(context.Background(), "UID_a")
	require.NoError(t, err)
	assert.Equal(t, []string{"ORG_1", "ORG_2"}, orgs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembersOfOrganisationEmpty(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT user_id FROM members").
		WithArgs("ORG_1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	members, err := s.MembersOfOrganisation(context.Background(), "ORG_1")
	require.NoError(t, err)
	assert.Empty(t, members)
	require.NoError(t, mock.ExpectationsWereMet())
}
