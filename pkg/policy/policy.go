// Package policy maps operation intents to the permission sets that
// authorize them. It never touches the database itself — callers resolve
// effective permissions (see Resolver) and pass them in.
package policy

import "github.com/aetherhq/control-plane/pkg/permission"

// Intent names an operation a caller is attempting against an organisation.
type Intent string

const (
	ViewOrganisation   Intent = "view_organisation"
	ManageOrganisation Intent = "manage_organisation"

	ViewInstances   Intent = "view_instances"
	CreateInstances Intent = "create_instances"
	ManageInstances Intent = "manage_instances"
	DeleteInstances Intent = "delete_instances"

	ViewMembers   Intent = "view_members"
	InviteMembers Intent = "invite_members"
	ManageMembers Intent = "manage_members"
	KickMembers   Intent = "kick_members"

	ViewRoles   Intent = "view_roles"
	ManageRoles Intent = "manage_roles"
)

// required maps each intent to the set of permissions that satisfy it;
// any one of the listed flags is sufficient (has_any semantics).
var required = map[Intent][]permission.Permissions{
	ViewOrganisation:   {permission.Administrator, permission.ViewOrganisation, permission.ManageOrganisation},
	ManageOrganisation: {permission.Administrator, permission.ManageOrganisation},

	ViewInstances:   {permission.Administrator, permission.ViewInstances, permission.ManageInstances},
	CreateInstances: {permission.Administrator, permission.CreateInstances, permission.ManageInstances},
	ManageInstances: {permission.Administrator, permission.ManageInstances},
	DeleteInstances: {permission.Administrator, permission.DeleteInstances, permission.ManageInstances},

	ViewMembers:   {permission.Administrator, permission.ViewMembers, permission.ManageMembers},
	InviteMembers: {permission.Administrator, permission.InviteMembers, permission.ManageMembers},
	ManageMembers: {permission.Administrator, permission.ManageMembers},
	KickMembers:   {permission.Administrator, permission.KickMembers, permission.ManageMembers},

	// view_roles: any of {ADMINISTRATOR, VIEW_ROLES, MANAGE_ROLES, MANAGE_ORGANISATION}
	ViewRoles: {permission.Administrator, permission.ViewRoles, permission.ManageRoles, permission.ManageOrganisation},
	// manage_roles: any of {ADMINISTRATOR, MANAGE_ROLES, MANAGE_ORGANISATION}
	ManageRoles: {permission.Administrator, permission.ManageRoles, permission.ManageOrganisation},
}

// Allows reports whether perms satisfies intent.
func Allows(perms permission.Permissions, intent Intent) bool {
	flags, ok := required[intent]
	if !ok {
		return false
	}
	return perms.HasAny(flags)
}

// Require returns false (denied) when perms does not satisfy intent; callers
// translate a false result into a Forbidden domain error at the call site so
// the error carries the specific operation's context.
func Require(perms permission.Permissions, intent Intent) bool {
	return Allows(perms, intent)
}
