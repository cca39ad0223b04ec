package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lawwee/hng11-stage-two/internal/auth"
	"github.com/lawwee/hng11-stage-two/internal/identity/memory"
	"github.com/lawwee/hng11-stage-two/internal/service"
)

const testIssuer = "test-issuer"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tokens := auth.NewTokens("test-secret")
	svc := service.New(memory.New(), tokens, testIssuer, time.Hour)
	ts := httptest.NewServer(NewRouter(svc, tokens, testIssuer, "test"))
	t.Cleanup(ts.Close)
	return ts
}

// successEnvelope mirrors the success wire shape for decoding in tests.
type successEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, method, url, token string, body any) (int, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal error: %v", err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error: %v", err)
	}
	return resp.StatusCode, raw
}

func registerUser(t *testing.T, ts *httptest.Server, email, first string) (token, userID string) {
	t.Helper()
	status, raw := doJSON(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]string{
		"email":     email,
		"password":  "Abcd1234!",
		"firstName": first,
		"lastName":  "Doe",
		"phone":     "0123456789",
	})
	if status != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	var data struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			UserID string `json:"userId"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data error: %v", err)
	}
	return data.AccessToken, data.User.UserID
}

func TestRootGreeting(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	status, raw := doJSON(t, http.MethodGet, ts.URL+"/", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if string(raw) != "Hello World!" {
		t.Errorf("body = %q, want %q", raw, "Hello World!")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	status, raw := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Status != "success" || env.Message != "Service is healthy" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	status, raw := doJSON(t, http.MethodGet, ts.URL+"/no/such/route", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	var env struct {
		Errors string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Errors != "Resource not found" {
		t.Errorf("errors = %q, want %q", env.Errors, "Resource not found")
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	status, raw := doJSON(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", status, raw)
	}
	var env struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(env.Errors) != 4 {
		t.Errorf("got %d field errors, want 4: %+v", len(env.Errors), env.Errors)
	}
}

func TestRegisterInvalidBody(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/auth/register", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	token, userID := registerUser(t, ts, "alice@example.com", "Alice")
	if token == "" || userID != "UID_aliceexamplecom" {
		t.Fatalf("token = %q, userID = %q", token, userID)
	}

	// Duplicate registration conflicts.
	status, raw := doJSON(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]string{
		"email":     "alice@example.com",
		"password":  "Abcd1234!",
		"firstName": "Alice",
		"lastName":  "Doe",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, body = %s", status, raw)
	}

	status, raw = doJSON(t, http.MethodPost, ts.URL+"/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcd1234!",
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Message != "Login successful" {
		t.Errorf("message = %q, want %q", env.Message, "Login successful")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/UID_a"},
		{http.MethodGet, "/api/organisations"},
		{http.MethodGet, "/api/organisations/ORG_1"},
	} {
		status, _ := doJSON(t, route.method, ts.URL+route.path, "", nil)
		if status != http.StatusForbidden {
			t.Errorf("%s %s: status = %d, want 403", route.method, route.path, status)
		}
	}
}

func TestOrganisationFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	aliceToken, aliceID := registerUser(t, ts, "alice@example.com", "Alice")
	bobToken, bobID := registerUser(t, ts, "bob@example.com", "Bob")

	// Alice sees only her personal organisation.
	status, raw := doJSON(t, http.MethodGet, ts.URL+"/api/organisations", aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	var list struct {
		Organisations []struct {
			OrgID string `json:"orgId"`
			Name  string `json:"name"`
		} `json:"organisations"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("unmarshal data error: %v", err)
	}
	if len(list.Organisations) != 1 || list.Organisations[0].Name != "Alice's Organisation" {
		t.Fatalf("unexpected organisations: %+v", list.Organisations)
	}
	orgID := list.Organisations[0].OrgID

	// Bob is not a member yet.
	status, _ = doJSON(t, http.MethodGet, ts.URL+"/api/organisations/"+orgID, bobToken, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("non-member get status = %d, want 401", status)
	}
	status, _ = doJSON(t, http.MethodGet, ts.URL+"/api/users/"+aliceID, bobToken, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("cross-org user fetch status = %d, want 401", status)
	}

	// Alice adds Bob to her organisation.
	status, raw = doJSON(t, http.MethodPost, ts.URL+"/organisations/"+orgID+"/users", aliceToken, map[string]string{
		"userId": bobID,
	})
	if status != http.StatusOK {
		t.Fatalf("add user status = %d, body = %s", status, raw)
	}

	// Now Bob can read both the organisation and Alice's details.
	status, _ = doJSON(t, http.MethodGet, ts.URL+"/api/organisations/"+orgID, bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("member get status = %d, want 200", status)
	}
	status, raw = doJSON(t, http.MethodGet, ts.URL+"/api/users/"+aliceID, bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("user fetch status = %d, body = %s", status, raw)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	var record struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &record); err != nil {
		t.Fatalf("unmarshal data error: %v", err)
	}
	if record.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", record.Email, "alice@example.com")
	}
}

func TestCreateOrganisation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	token, _ := registerUser(t, ts, "alice@example.com", "Alice")

	status, raw := doJSON(t, http.MethodPost, ts.URL+"/api/organisations", token, map[string]string{
		"name":        "Side Project",
		"description": "weekend work",
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Message != "Organisation created successfully" {
		t.Errorf("message = %q, want %q", env.Message, "Organisation created successfully")
	}

	// Missing name is a validation failure.
	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/organisations", token, map[string]string{
		"description": "no name",
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("create without name status = %d, want 422", status)
	}
}

func TestGetUserSelf(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	token, userID := registerUser(t, ts, "alice@example.com", "Alice")
	status, raw := doJSON(t, http.MethodGet, ts.URL+"/api/users/"+userID, token, nil)
	if status != http.StatusOK {
		t.Fatalf("self fetch status = %d, body = %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Message != "User Details fetched successfully" {
		t.Errorf("message = %q, want %q", env.Message, "User Details fetched successfully")
	}
}
