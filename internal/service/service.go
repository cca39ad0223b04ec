// Package service orchestrates registration, login, organisation creation
// and membership mutation. Every operation returns either a success payload
// with its status code or a failure descriptor; no raw store or crypto
// error escapes past this boundary.
package service

import (
	"time"

	"github.com/lawwee/hng11-stage-two/internal/auth"
	"github.com/lawwee/hng11-stage-two/internal/identity"
	"github.com/lawwee/hng11-stage-two/internal/server/dto"
)

// Service implements the account and organisation operations over the
// identity store.
type Service struct {
	store  identity.Store
	tokens *auth.Tokens
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a service. issuer is the configured token issuer claim and
// ttl the token lifetime.
func New(store identity.Store, tokens *auth.Tokens, issuer string, ttl time.Duration) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func userRecord(u *identity.User) *dto.UserRecord {
	return &dto.UserRecord{
		UserID:    u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

func organisationRecord(o *identity.Organisation) dto.OrganisationRecord {
	return dto.OrganisationRecord{
		OrgID:       o.OrgID,
		Name:        o.Name,
		Description: o.Description,
	}
}
