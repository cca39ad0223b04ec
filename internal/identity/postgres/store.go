// Package postgres implements the identity store over PostgreSQL via the
// pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver

	"github.com/lawwee/hng11-stage-two/internal/identity"
)

// Store is a PostgreSQL-backed implementation of identity.Store.
type Store struct {
	db *sql.DB
}

// New creates a store around an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// isUniqueViolation reports whether the error is a unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UserByID returns the user with the given identifier.
func (s *Store) UserByID(ctx context.Context, userID string) (*identity.User, error) {
	query := `SELECT user_id, email, password_hash, first_name, last_name, phone
	          FROM users WHERE user_id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// UserByEmail returns the user with the given normalized email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*identity.User, error) {
	query := `SELECT user_id, email, password_hash, first_name, last_name, phone
	          FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) scanUser(row *sql.Row) (*identity.User, error) {
	user := &identity.User{}
	var phone sql.NullString
	err := row.Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Phone = phone.String
	return user, nil
}

// InsertUser persists a new user row. The unique index on email closes the
// check-then-insert race; a concurrent duplicate surfaces as ErrDuplicate.
func (s *Store) InsertUser(ctx context.Context, user *identity.User) error {
	query := `INSERT INTO users (user_id, email, password_hash, first_name, last_name, phone)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	phone := sql.NullString{String: user.Phone, Valid: user.Phone != ""}
	_, err := s.db.ExecContext(ctx, query, user.UserID, user.Email, user.PasswordHash, user.FirstName, user.LastName, phone)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// OrganisationByID returns the organisation with the given identifier.
func (s *Store) OrganisationByID(ctx context.Context, orgID string) (*identity.Organisation, error) {
	query := `SELECT org_id, name, description FROM organisations WHERE org_id = $1`
	org := &identity.Organisation{}
	var description sql.NullString
	err := s.db.QueryRowContext(ctx, query, orgID).Scan(&org.OrgID, &org.Name, &description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	org.Description = description.String
	return org, nil
}

// InsertOrganisation persists a new organisation row.
func (s *Store) InsertOrganisation(ctx context.Context, org *identity.Organisation) error {
	query := `INSERT INTO organisations (org_id, name, description) VALUES ($1, $2, $3)`
	description := sql.NullString{String: org.Description, Valid: org.Description != ""}
	_, err := s.db.ExecContext(ctx, query, org.OrgID, org.Name, description)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// InsertMembership links a user to an organisation.
func (s *Store) InsertMembership(ctx context.Context, userID, orgID string) error {
	query := `INSERT INTO members (user_id, org_id) VALUES ($1, $2)`
	_, err := s.db.ExecContext(ctx, query, userID, orgID)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// OrganisationsByUser returns the organisation IDs the user belongs to, in
// membership insertion order.
func (s *Store) OrganisationsByUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT org_id FROM members WHERE user_id = $1 ORDER BY created`
	return s.queryIDs(ctx, query, userID)
}

// MembersOfOrganisation returns the user IDs belonging to the organisation.
func (s *Store) MembersOfOrganisation(ctx context.Context, orgID string) ([]string, error) {
	query := `SELECT user_id FROM members WHERE org_id = $1 ORDER BY created`
	return s.queryIDs(ctx, query, orgID)
}

func (s *Store) queryIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

var _ identity.Store = (*Store)(nil)
