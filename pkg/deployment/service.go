package deployment

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/pkg/action"
	"github.com/aetherhq/control-plane/pkg/aethererr"
	"github.com/aetherhq/control-plane/pkg/dataplane"
	"github.com/aetherhq/control-plane/pkg/identity"
	"github.com/aetherhq/control-plane/pkg/permission"
	"github.com/aetherhq/control-plane/pkg/policy"
)

// PermissionResolver resolves an identity's effective permissions within an
// organisation. Satisfied by *role.Service.
type PermissionResolver interface {
	EffectivePermissions(ctx context.Context, id identity.Identity, organisationID uuid.UUID) (permission.Permissions, error)
}

// ActionRecorder appends entries to the action log. Satisfied by
// *action.Service.
type ActionRecorder interface {
	Record(ctx context.Context, cmd action.RecordCommand) (action.Action, error)
}

// Service orchestrates deployment lifecycle commands, including placement.
type Service struct {
	store      *Store
	dataplanes *dataplane.Service
	perms      PermissionResolver
	actions    ActionRecorder
}

// NewService creates a deployment Service.
func NewService(store *Store, dataplanes *dataplane.Service, perms PermissionResolver, actions ActionRecorder) *Service {
	return &Service{store: store, dataplanes: dataplanes, perms: perms, actions: actions}
}

func (s *Service) authorize(ctx context.Context, id identity.Identity, organisationID uuid.UUID, intent policy.Intent) error {
	perms, err := s.perms.EffectivePermissions(ctx, id, organisationID)
	if err != nil {
		return aethererr.Internal(err, "resolving permissions")
	}
	if !policy.Allows(perms, intent) {
		return aethererr.Forbidden("insufficient permissions")
	}
	return nil
}

// Get returns a single deployment by ID, if id is authorized to view it.
func (s *Service) Get(ctx context.Context, id identity.Identity, organisationID, deploymentID uuid.UUID) (Deployment, error) {
	if err := s.authorize(ctx, id, organisationID, policy.ViewInstances); err != nil {
		return Deployment{}, err
	}
	d, err := s.store.Get(ctx, deploymentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Deployment{}, aethererr.NotFound("deployment not found")
		}
		return Deployment{}, aethererr.Internal(err, "fetching deployment")
	}
	return d, nil
}

// List returns deployments owned by organisationID, if id is authorized.
func (s *Service) List(ctx context.Context, id identity.Identity, organisationID uuid.UUID, limit, offset int) ([]Deployment, int, error) {
	if err := s.authorize(ctx, id, organisationID, policy.ViewInstances); err != nil {
		return nil, 0, err
	}
	items, err := s.store.ListByOrganisation(ctx, organisationID, limit, offset)
	if err != nil {
		return nil, 0, aethererr.Internal(err, "listing deployments")
	}
	total, err := s.store.CountByOrganisation(ctx, organisationID)
	if err != nil {
		return nil, 0, aethererr.Internal(err, "counting deployments")
	}
	return items, total, nil
}

// ListByDataPlane returns every deployment placed on dataPlaneID. This backs
// get_deployments_in_dataplane, which Herald calls to discover what it must
// sync on a tick — only the Herald service identity may call it, since the
// result crosses organisation boundaries.
func (s *Service) ListByDataPlane(ctx context.Context, id identity.Identity, dataPlaneID uuid.UUID) ([]Deployment, error) {
	if !id.IsService() {
		return nil, aethererr.Forbidden("only the herald service may list deployments by data plane")
	}
	items, err := s.store.ListByDataPlane(ctx, dataPlaneID)
	if err != nil {
		return nil, aethererr.Internal(err, "listing deployments by dataplane")
	}
	return items, nil
}

// Create places and creates a new deployment, if id is authorized.
// Placement follows spec §4.3: find_available(region, 1), failing with a
// NotFound domain error if no data plane has spare capacity.
func (s *Service) Create(ctx context.Context, id identity.Identity, cmd CreateCommand) (Deployment, error) {
	if err := s.authorize(ctx, id, cmd.OrganisationID, policy.CreateInstances); err != nil {
		return Deployment{}, err
	}
	if !ValidKind(cmd.Kind) {
		return Deployment{}, aethererr.Validation("kind must be keycloak or ferriskey")
	}
	if cmd.Name == "" {
		return Deployment{}, aethererr.Validation("name is required")
	}

	plane, err := s.dataplanes.FindAvailable(ctx, cmd.Region, 1)
	if err != nil {
		return Deployment{}, err
	}

	d := Deployment{
		ID:             uuid.New(),
		OrganisationID: cmd.OrganisationID,
		DataPlaneID:    plane.ID,
		Name:           cmd.Name,
		Kind:           cmd.Kind,
		Version:        cmd.Version,
		Status:         StatusPending,
		Namespace:      cmd.Namespace,
		CreatedBy:      cmd.CreatedBy,
	}
	created, err := s.store.Insert(ctx, d)
	if err != nil {
		return Deployment{}, aethererr.Internal(err, "inserting deployment")
	}

	if err := s.recordCreateAction(ctx, id, created); err != nil {
		return Deployment{}, err
	}
	return created, nil
}

// recordCreateAction appends the deployment.create action that seeds
// Herald's work for the new deployment: without it the control plane would
// insert a row the data plane never hears about.
func (s *Service) recordCreateAction(ctx context.Context, id identity.Identity, d Deployment) error {
	payload, err := json.Marshal(d.ToResponse())
	if err != nil {
		return aethererr.Internal(err, "marshalling deployment.create payload")
	}

	src := action.Source{Kind: action.SourceUser, UserID: &d.CreatedBy}
	if id.IsService() {
		clientID := id.ClientID
		src = action.Source{Kind: action.SourceAPI, ClientID: &clientID}
	}

	_, err = s.actions.Record(ctx, action.RecordCommand{
		DeploymentID: d.ID,
		DataPlaneID:  d.DataPlaneID,
		ActionType:   "deployment.create",
		Target:       action.Target{Kind: action.TargetDeployment, ID: d.ID.String()},
		Payload:      payload,
		Version:      1,
		Source:       src,
	})
	if err != nil {
		return aethererr.Internal(err, "recording deployment.create action")
	}
	return nil
}

// Delete soft-deletes a deployment, if id is authorized.
func (s *Service) Delete(ctx context.Context, id identity.Identity, organisationID, deploymentID uuid.UUID) error {
	if err := s.authorize(ctx, id, organisationID, policy.DeleteInstances); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, deploymentID); err != nil {
		if err == pgx.ErrNoRows {
			return aethererr.NotFound("deployment not found")
		}
		return aethererr.Internal(err, "deleting deployment")
	}
	return nil
}
