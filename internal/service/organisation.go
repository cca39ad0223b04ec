package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lawwee/hng11-stage-two/internal/authz"
	"github.com/lawwee/hng11-stage-two/internal/identity"
	"github.com/lawwee/hng11-stage-two/internal/server/dto"
)

// ListOrganisations returns every organisation the principal belongs to, in
// membership fetch order.
//
// An empty membership fetch is reported as a storage-read failure rather
// than an empty list: every user joins an organisation at registration, so
// zero rows means the members table could not be read.
func (s *Service) ListOrganisations(ctx context.Context, principal string, _ *dto.ListOrganisationsRequest) (*dto.Payload, error) {
	if _, err := s.store.UserByID(ctx, principal); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "User does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error fetching organisations").Wrap(err)
	}

	orgIDs, err := s.store.OrganisationsByUser(ctx, principal)
	if err != nil || len(orgIDs) == 0 {
		return nil, dto.Failure("Server error", "Error reading members table", http.StatusInternalServerError).Wrap(err)
	}

	organisations := make([]dto.OrganisationRecord, 0, len(orgIDs))
	for _, orgID := range orgIDs {
		org, err := s.store.OrganisationByID(ctx, orgID)
		if err != nil {
			return nil, dto.Internal("Error fetching organisation").Wrap(err)
		}
		organisations = append(organisations, organisationRecord(org))
	}

	data := &dto.OrganisationList{Organisations: organisations}
	return dto.Success("All Organisations fetched successfully", data, http.StatusOK), nil
}

// GetOrganisation returns one organisation's details. The principal must be
// a member.
func (s *Service) GetOrganisation(ctx context.Context, principal string, req *dto.GetOrganisationRequest) (*dto.Payload, error) {
	if req.OrgID == "" {
		return nil, dto.Failure("Client error", "orgId cannot be empty", http.StatusConflict)
	}

	if _, err := s.store.UserByID(ctx, principal); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "User does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error fetching organisation").Wrap(err)
	}

	org, err := s.store.OrganisationByID(ctx, req.OrgID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "Organisation does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error fetching organisation").Wrap(err)
	}

	members, err := s.store.MembersOfOrganisation(ctx, req.OrgID)
	if err != nil {
		return nil, dto.Internal("Error reading members table").Wrap(err)
	}
	if !authz.IsMember(members, principal) {
		return nil, dto.Failure("Unauthorized Request", "You are not a member of this organisation", http.StatusUnauthorized)
	}

	record := organisationRecord(org)
	return dto.Success("Organisation details fetched successfully", &record, http.StatusOK), nil
}

// CreateOrganisation creates an organisation and makes the principal its
// first member.
func (s *Service) CreateOrganisation(ctx context.Context, principal string, req *dto.CreateOrganisationRequest) (*dto.Payload, error) {
	if _, err := s.store.UserByID(ctx, principal); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "User does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error creating organisation").Wrap(err)
	}

	org := &identity.Organisation{
		OrgID:       identity.NewOrgID(s.now()),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.store.InsertOrganisation(ctx, org); err != nil {
		return nil, dto.Failure("Server error", "Error creating organisation", http.StatusInternalServerError).Wrap(err)
	}

	if err := s.store.InsertMembership(ctx, principal, org.OrgID); err != nil {
		slog.ErrorContext(ctx, "Organisation creation left partial state", "orgId", org.OrgID, "userId", principal, "err", err)
		return nil, dto.Failure("Server error", "Error adding user to organisation", http.StatusInternalServerError).Wrap(err)
	}

	record := organisationRecord(org)
	return dto.Success("Organisation created successfully", &record, http.StatusCreated), nil
}

// AddUserToOrganisation adds the target user to an organisation. The acting
// principal must already be a member.
func (s *Service) AddUserToOrganisation(ctx context.Context, principal string, req *dto.AddUserRequest) (*dto.Payload, error) {
	if _, err := s.store.UserByID(ctx, principal); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "User does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error adding user to organisation").Wrap(err)
	}

	if _, err := s.store.OrganisationByID(ctx, req.OrgID); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "Organisation does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error adding user to organisation").Wrap(err)
	}

	if _, err := s.store.UserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, dto.Failure("Bad Request", "User to add does not exist", http.StatusConflict)
		}
		return nil, dto.Internal("Error adding user to organisation").Wrap(err)
	}

	members, err := s.store.MembersOfOrganisation(ctx, req.OrgID)
	if err != nil {
		return nil, dto.Internal("Error reading members table").Wrap(err)
	}
	if !authz.IsMember(members, principal) {
		return nil, dto.Failure("Unauthorized Request", "You are not a member of this organisation", http.StatusUnauthorized)
	}

	if err := s.store.InsertMembership(ctx, req.UserID, req.OrgID); err != nil {
		return nil, dto.Failure("Server error", "Error adding into members table", http.StatusInternalServerError).Wrap(err)
	}

	return dto.Success("User added to organisation successfully", nil, http.StatusOK), nil
}
