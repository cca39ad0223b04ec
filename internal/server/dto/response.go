package dto

// Payload is the uniform success outcome: a status label, a message, an
// optional data payload, and the HTTP status code to write.
type Payload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`

	code int
}

// Success creates a success payload with the given message, data and HTTP
// status code.
func Success(message string, data any, code int) *Payload {
	return &Payload{Status: "success", Message: message, Data: data, code: code}
}

// StatusCode returns the HTTP status code to write with the payload.
func (p *Payload) StatusCode() int {
	return p.code
}

// UserRecord is the API representation of a user. The password hash is
// never included.
type UserRecord struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// AuthData is the data payload returned by register and login.
type AuthData struct {
	AccessToken string      `json:"accessToken"`
	User        *UserRecord `json:"user"`
}

// OrganisationRecord is the API representation of an organisation.
type OrganisationRecord struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OrganisationList is the data payload of the organisation listing.
type OrganisationList struct {
	Organisations []OrganisationRecord `json:"organisations"`
}

// HealthData is the data payload of the health check.
type HealthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
