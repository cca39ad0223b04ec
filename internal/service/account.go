package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lawwee/hng11-stage-two/internal/auth"
	"github.com/lawwee/hng11-stage-two/internal/authz"
	"github.com/lawwee/hng11-stage-two/internal/identity"
	"github.com/lawwee/hng11-stage-two/internal/server/dto"
)

// Register creates a new account, its personal organisation, and the
// membership linking the two, then issues a bearer token.
//
// The three inserts are sequential and not transactional: a failure partway
// through leaves partial state, which is logged for manual reconciliation
// and reported as a single 500.
func (s *Service) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.Payload, error) {
	email := identity.NormalizeEmail(req.Email)

	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil, dto.Failure("Bad Request", "Email already exists", http.StatusConflict)
	} else if !errors.Is(err, identity.ErrNotFound) {
		return nil, dto.Internal("Error creating user").Wrap(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, dto.Internal("Error creating user").Wrap(err)
	}

	user := &identity.User{
		UserID:       identity.UserIDFromEmail(email),
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		// The storage layer enforces email uniqueness, so a concurrent
		// duplicate registration surfaces here rather than at the prior
		// existence check.
		if errors.Is(err, identity.ErrDuplicate) {
			return nil, dto.Failure("Bad Request", "Email already exists", http.StatusConflict)
		}
		return nil, dto.Failure("Server error", "Error creating user", http.StatusInternalServerError).Wrap(err)
	}

	token, err := s.tokens.Issue(user.UserID, s.issuer, s.ttl)
	if err != nil {
		return nil, dto.Internal("Failed to generate token").Wrap(err)
	}

	org := &identity.Organisation{
		OrgID:       identity.NewOrgID(s.now()),
		Name:        fmt.Sprintf("%s's Organisation", user.FirstName),
		Description: fmt.Sprintf("A description of %s's Organisation", user.FirstName),
	}
	if err := s.store.InsertOrganisation(ctx, org); err != nil {
		slog.ErrorContext(ctx, "Registration left partial state", "userId", user.UserID, "err", err)
		return nil, dto.Failure("Server error", "Error creating user's organisation", http.StatusInternalServerError).Wrap(err)
	}

	if err := s.store.InsertMembership(ctx, user.UserID, org.OrgID); err != nil {
		slog.ErrorContext(ctx, "Registration left partial state", "userId", user.UserID, "orgId", org.OrgID, "err", err)
		return nil, dto.Failure("Server error", "Registration unsuccessful", http.StatusInternalServerError).Wrap(err)
	}

	data := &dto.AuthData{AccessToken: token, User: userRecord(user)}
	return dto.Success("Registration successful", data, http.StatusCreated), nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, req *dto.LoginRequest) (*dto.Payload, error) {
	email := identity.NormalizeEmail(req.Email)

	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "Email does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error logging in user").Wrap(err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, dto.Failure("Unauthorized", "Incorrect password", http.StatusUnauthorized)
	}

	token, err := s.tokens.Issue(user.UserID, s.issuer, s.ttl)
	if err != nil {
		return nil, dto.Internal("Failed to generate token").Wrap(err)
	}

	data := &dto.AuthData{AccessToken: token, User: userRecord(user)}
	return dto.Success("Login successful", data, http.StatusOK), nil
}

// GetUserDetails returns the target user's record. Self-access is always
// permitted; any other target requires at least one shared organisation
// with the principal.
func (s *Service) GetUserDetails(ctx context.Context, principal string, req *dto.GetUserRequest) (*dto.Payload, error) {
	if req.ID == "" {
		return nil, dto.Failure("Client error", "Id cannot be empty", http.StatusConflict)
	}

	caller, err := s.store.UserByID(ctx, principal)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "User(s) does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error fetching user details").Wrap(err)
	}
	target, err := s.store.UserByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "User(s) does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error fetching user details").Wrap(err)
	}

	if principal == req.ID {
		return dto.Success("User Details fetched successfully", userRecord(caller), http.StatusOK), nil
	}

	callerOrgs, err := s.store.OrganisationsByUser(ctx, principal)
	if err != nil || len(callerOrgs) == 0 {
		return nil, dto.Failure("Internal Server error", "Error reading members table", http.StatusInternalServerError).Wrap(err)
	}
	targetOrgs, err := s.store.OrganisationsByUser(ctx, req.ID)
	if err != nil || len(targetOrgs) == 0 {
		return nil, dto.Failure("Internal Server error", "Error reading members table", http.StatusInternalServerError).Wrap(err)
	}

	if !authz.SharedOrganisation(callerOrgs, targetOrgs) {
		return nil, dto.Failure("Unauthorized", "You and user are not in same organisation", http.StatusUnauthorized)
	}

	return dto.Success("User Details fetched successfully", userRecord(target), http.StatusOK), nil
}
