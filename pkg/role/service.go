package role

import (
	"context"

	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/pkg/aethererr"
	"github.com/aetherhq/control-plane/pkg/identity"
	"github.com/aetherhq/control-plane/pkg/permission"
	"github.com/aetherhq/control-plane/pkg/policy"
)

// Service orchestrates role CRUD gated by the policy layer.
type Service struct {
	store *Store
}

// NewService creates a role Service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// EffectivePermissions resolves id's effective permission set for
// organisationID, per spec §4.1: union of permissions of roles whose name
// appears in id.Roles for that organisation.
func (s *Service) EffectivePermissions(ctx context.Context, id identity.Identity, organisationID uuid.UUID) (permission.Permissions, error) {
	return s.store.ResolvePermissions(ctx, organisationID, id.Roles)
}

// List returns every role for organisationID, if id is authorized to view roles.
func (s *Service) List(ctx context.Context, id identity.Identity, organisationID uuid.UUID) ([]Role, error) {
	perms, err := s.EffectivePermissions(ctx, id, organisationID)
	if err != nil {
		return nil, aethererr.Internal(err, "resolving permissions")
	}
	if !policy.Allows(perms, policy.ViewRoles) {
		return nil, aethererr.Forbidden("insufficient permissions to view roles")
	}
	return s.store.ListByOrganisation(ctx, organisationID)
}

// Create creates a new role for organisationID, if id is authorized.
func (s *Service) Create(ctx context.Context, id identity.Identity, organisationID uuid.UUID, cmd CreateCommand) (Role, error) {
	perms, err := s.EffectivePermissions(ctx, id, organisationID)
	if err != nil {
		return Role{}, aethererr.Internal(err, "resolving permissions")
	}
	if !policy.Allows(perms, policy.ManageRoles) {
		return Role{}, aethererr.Forbidden("insufficient permissions to manage roles")
	}
	cmd.OrganisationID = organisationID
	return s.store.Create(ctx, cmd)
}

// Update applies a partial update to a role, if id is authorized.
func (s *Service) Update(ctx context.Context, id identity.Identity, organisationID, roleID uuid.UUID, cmd UpdateCommand) (Role, error) {
	perms, err := s.EffectivePermissions(ctx, id, organisationID)
	if err != nil {
		return Role{}, aethererr.Internal(err, "resolving permissions")
	}
	if !policy.Allows(perms, policy.ManageRoles) {
		return Role{}, aethererr.Forbidden("insufficient permissions to manage roles")
	}
	return s.store.Update(ctx, roleID, cmd)
}

// Delete removes a role, if id is authorized.
func (s *Service) Delete(ctx context.Context, id identity.Identity, organisationID, roleID uuid.UUID) error {
	perms, err := s.EffectivePermissions(ctx, id, organisationID)
	if err != nil {
		return aethererr.Internal(err, "resolving permissions")
	}
	if !policy.Allows(perms, policy.ManageRoles) {
		return aethererr.Forbidden("insufficient permissions to manage roles")
	}
	return s.store.Delete(ctx, roleID)
}
