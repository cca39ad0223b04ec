// Package identity defines the domain types shared by the account and
// organisation services:
//   - User accounts and their credentials
//   - Organisations (multi-tenant resource containers)
//   - Memberships (user-organisation relationships)
//
// Persistence lives behind the Store interface; implementations are in the
// postgres and memory subpackages.
package identity

import (
	"fmt"
	"strings"
	"time"
)

// User represents a registered account.
//
// UserID is derived from the normalized email at registration time and is
// immutable afterwards. PasswordHash is never serialized.
type User struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone,omitempty"`
}

// Organisation is a shared resource container. Every organisation has at
// least one member in practice, its creator.
type Organisation struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Membership associates one user with one organisation. There is no payload
// beyond the pair.
type Membership struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

// NormalizeEmail case-folds and trims an email address. All lookups and
// inserts go through the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserIDFromEmail derives the stable user identifier from a normalized email
// by stripping every non-alphanumeric character and prefixing "UID_".
//
// Two emails differing only by symbols or case collapse to the same
// identifier. Known limitation, kept as-is; the registration flow rejects
// duplicate emails but not colliding identifiers.
func UserIDFromEmail(email string) string {
	var b strings.Builder
	b.Grow(len(email) + 4)
	b.WriteString("UID_")
	for _, r := range email {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewOrgID derives an organisation identifier from a creation timestamp.
func NewOrgID(t time.Time) string {
	return fmt.Sprintf("ORG_%d", t.UnixMilli())
}
