package dto

import "regexp"

// Validatable is implemented by request types that can validate their
// fields. The Wrap functions in the server package use it as a type
// constraint so every request type provides validation.
type Validatable interface {
	Validate() error
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordPolicyMessage = "Password must contain at least one uppercase letter, " +
	"one lowercase letter, one number, one special character, and have a total length " +
	"of 8 characters or more"

// validEmail reports whether the address has a plausible mailbox@domain
// shape. Full RFC 5322 parsing is deliberately out of scope.
func validEmail(email string) bool {
	return emailRe.MatchString(email)
}

// validPassword enforces the password policy: length >= 8 with at least one
// uppercase letter, one lowercase letter, one digit, and one special
// character.
func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

func emailFieldErrors(email string, fields []FieldError) []FieldError {
	if email == "" {
		return append(fields, FieldError{Field: "email", Message: "Email is required"})
	}
	if !validEmail(email) {
		return append(fields, FieldError{Field: "email", Message: "Invalid email format"})
	}
	return fields
}

func passwordFieldErrors(password string, fields []FieldError) []FieldError {
	if password == "" {
		return append(fields, FieldError{Field: "password", Message: "Password is required"})
	}
	if !validPassword(password) {
		return append(fields, FieldError{Field: "password", Message: passwordPolicyMessage})
	}
	return fields
}

// --- Auth ---

// RegisterRequest is a request to register a new account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Validate checks the register request fields, collecting every failure
// rather than stopping at the first.
func (r *RegisterRequest) Validate() error {
	var fields []FieldError
	fields = emailFieldErrors(r.Email, fields)
	fields = passwordFieldErrors(r.Password, fields)
	if r.FirstName == "" {
		fields = append(fields, FieldError{Field: "firstName", Message: "firstName is required"})
	}
	if r.LastName == "" {
		fields = append(fields, FieldError{Field: "lastName", Message: "lastName is required"})
	}
	if len(fields) > 0 {
		return ValidationFailed(fields)
	}
	return nil
}

// LoginRequest is a request to log in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login request fields.
func (r *LoginRequest) Validate() error {
	var fields []FieldError
	fields = emailFieldErrors(r.Email, fields)
	fields = passwordFieldErrors(r.Password, fields)
	if len(fields) > 0 {
		return ValidationFailed(fields)
	}
	return nil
}

// --- Users ---

// GetUserRequest is a request to fetch a user's details.
type GetUserRequest struct {
	ID string `path:"id"`
}

// Validate is a no-op; an empty or unknown target is an existence failure,
// not a schema failure.
func (r *GetUserRequest) Validate() error {
	return nil
}

// --- Organisations ---

// ListOrganisationsRequest is a request to list the caller's organisations.
type ListOrganisationsRequest struct{}

// Validate is a no-op for ListOrganisationsRequest.
func (r *ListOrganisationsRequest) Validate() error {
	return nil
}

// GetOrganisationRequest is a request to fetch one organisation.
type GetOrganisationRequest struct {
	OrgID string `path:"orgId"`
}

// Validate is a no-op; an empty orgId is an existence failure.
func (r *GetOrganisationRequest) Validate() error {
	return nil
}

// CreateOrganisationRequest is a request to create an organisation.
type CreateOrganisationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks the create organisation request fields.
func (r *CreateOrganisationRequest) Validate() error {
	if r.Name == "" {
		return ValidationFailed([]FieldError{{Field: "name", Message: "name is required"}})
	}
	return nil
}

// AddUserRequest is a request to add a user to an organisation.
type AddUserRequest struct {
	OrgID  string `path:"orgId"`
	UserID string `json:"userId"`
}

// Validate is a no-op; a missing target user is an existence failure.
func (r *AddUserRequest) Validate() error {
	return nil
}

// --- Health ---

// HealthRequest is a request for the health check.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}
