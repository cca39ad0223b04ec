// Package memory provides an in-memory identity store. It backs tests and
// the development mode used when no database DSN is configured.
package memory

import (
	"context"
	"sync"

	"github.com/lawwee/hng11-stage-two/internal/identity"
)

// Store is an in-memory implementation of identity.Store. Safe for
// concurrent use.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*identity.User // key: userID
	usersByEmail  map[string]*identity.User // key: normalized email
	organisations map[string]*identity.Organisation
	memberships   []identity.Membership // insertion order preserved
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[string]*identity.User),
		usersByEmail:  make(map[string]*identity.User),
		organisations: make(map[string]*identity.Organisation),
	}
}

// UserByID returns the user with the given identifier.
func (s *Store) UserByID(_ context.Context, userID string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, identity.ErrNotFound
	}
	u := *user
	return &u, nil
}

// UserByEmail returns the user with the given normalized email.
func (s *Store) UserByEmail(_ context.Context, email string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, identity.ErrNotFound
	}
	u := *user
	return &u, nil
}

// InsertUser persists a new user row.
func (s *Store) InsertUser(_ context.Context, user *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.UserID]; ok {
		return identity.ErrDuplicate
	}
	if _, ok := s.usersByEmail[user.Email]; ok {
		return identity.ErrDuplicate
	}
	u := *user
	s.users[u.UserID] = &u
	s.usersByEmail[u.Email] = &u
	return nil
}

// OrganisationByID returns the organisation with the given identifier.
func (s *Store) OrganisationByID(_ context.Context, orgID string) (*identity.Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.organisations[orgID]
	if !ok {
		return nil, identity.ErrNotFound
	}
	o := *org
	return &o, nil
}

// InsertOrganisation persists a new organisation row.
func (s *Store) InsertOrganisation(_ context.Context, org *identity.Organisation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.organisations[org.OrgID]; ok {
		return identity.ErrDuplicate
	}
	o := *org
	s.organisations[o.OrgID] = &o
	return nil
}

// InsertMembership links a user to an organisation.
func (s *Store) InsertMembership(_ context.Context, userID, orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.UserID == userID && m.OrgID == orgID {
			return identity.ErrDuplicate
		}
	}
	s.memberships = append(s.memberships, identity.Membership{UserID: userID, OrgID: orgID})
	return nil
}

// OrganisationsByUser returns the organisation IDs the user belongs to, in
// insertion order.
func (s *Store) OrganisationsByUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orgIDs []string
	for _, m := range s.memberships {
		if m.UserID == userID {
			orgIDs = append(orgIDs, m.OrgID)
		}
	}
	return orgIDs, nil
}

// MembersOfOrganisation returns the user IDs belonging to the organisation.
func (s *Store) MembersOfOrganisation(_ context.Context, orgID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var userIDs []string
	for _, m := range s.memberships {
		if m.OrgID == orgID {
			userIDs = append(userIDs, m.UserID)
		}
	}
	return userIDs, nil
}

var _ identity.Store = (*Store)(nil)
