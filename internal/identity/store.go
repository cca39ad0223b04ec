package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store lookups when no row matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by Store inserts that violate a uniqueness
// constraint.
var ErrDuplicate = errors.New("already exists")

// Store is the narrow query surface the services need from the identity
// data store. Implementations own all persistence; the services hold no
// durable state.
//
// All methods are blocking calls; timeout and retry policy belong to the
// implementation.
type Store interface {
	// UserByID returns the user with the given identifier, or ErrNotFound.
	UserByID(ctx context.Context, userID string) (*User, error)
	// UserByEmail returns the user with the given normalized email, or
	// ErrNotFound.
	UserByEmail(ctx context.Context, email string) (*User, error)
	// InsertUser persists a new user row.
	InsertUser(ctx context.Context, user *User) error

	// OrganisationByID returns the organisation with the given identifier,
	// or ErrNotFound.
	OrganisationByID(ctx context.Context, orgID string) (*Organisation, error)
	// InsertOrganisation persists a new organisation row.
	InsertOrganisation(ctx context.Context, org *Organisation) error

	// InsertMembership links a user to an organisation.
	InsertMembership(ctx context.Context, userID, orgID string) error
	// OrganisationsByUser returns the organisation IDs the user belongs to,
	// in membership fetch order. The order is not guaranteed stable across
	// calls.
	OrganisationsByUser(ctx context.Context, userID string) ([]string, error)
	// MembersOfOrganisation returns the user IDs belonging to the
	// organisation.
	MembersOfOrganisation(ctx context.Context, orgID string) ([]string, error)
}
