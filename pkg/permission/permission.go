// Package permission implements the 64-bit permission bitset every
// authorization decision in the control plane is built on.
package permission

import "strings"

// Permissions is a plain 64-bit unsigned flag set. There is no inheritance:
// ADMINISTRATOR does not imply any other bit. Callers that want an
// administrator to bypass a check must list ADMINISTRATOR explicitly
// alongside the permissions they accept.
type Permissions uint64

const (
	ViewOrganisation Permissions = 1 << iota
	ManageOrganisation

	ViewInstances
	CreateInstances
	ManageInstances
	DeleteInstances

	ViewMembers
	InviteMembers
	ManageMembers
	KickMembers

	ViewRoles
	ManageRoles

	ViewBilling
	ManageBilling
)

// Administrator occupies the top bit, mirroring the source bitset layout.
const Administrator Permissions = 1 << 63

// named pairs to_vec reports by debug name. This mirrors the source's own
// table, which only names a subset of flags (VIEW_ROLES and below) — that
// restriction is preserved rather than "fixed", since policies never
// actually call ToVec for anything past role visibility.
var named = []struct {
	flag Permissions
	name string
}{
	{ViewOrganisation, "VIEW_ORGANISATION"},
	{ManageOrganisation, "MANAGE_ORGANISATION"},
	{ViewInstances, "VIEW_INSTANCES"},
	{CreateInstances, "CREATE_INSTANCES"},
	{ManageInstances, "MANAGE_INSTANCES"},
	{DeleteInstances, "DELETE_INSTANCES"},
	{ViewMembers, "VIEW_MEMBERS"},
	{InviteMembers, "INVITE_MEMBERS"},
	{ManageMembers, "MANAGE_MEMBERS"},
	{KickMembers, "KICK_MEMBERS"},
	{ViewRoles, "VIEW_ROLES"},
}

// Can reports whether p contains every bit set in permission.
func (p Permissions) Can(permission Permissions) bool {
	return p&permission == permission
}

// HasAny reports whether p contains at least one of the given flags.
func (p Permissions) HasAny(permissions []Permissions) bool {
	for _, f := range permissions {
		if p.Can(f) {
			return true
		}
	}
	return false
}

// HasAll reports whether p contains every one of the given flags.
func (p Permissions) HasAll(permissions []Permissions) bool {
	for _, f := range permissions {
		if !p.Can(f) {
			return false
		}
	}
	return true
}

// UnionAll bitwise-ORs a slice of permission sets together.
func UnionAll(perms []Permissions) Permissions {
	var result Permissions
	for _, p := range perms {
		result |= p
	}
	return result
}

// ToVec returns the debug names of the flags p holds, restricted to the
// named table above.
func (p Permissions) ToVec() []string {
	var out []string
	for _, n := range named {
		if p.Can(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

// FromNames builds a Permissions set from the debug names ToVec produces.
// Unknown names are ignored, the same leniency ListByNames/ResolvePermissions
// give unknown role names.
func FromNames(names []string) Permissions {
	var out Permissions
	for _, raw := range names {
		upper := strings.ToUpper(raw)
		for _, n := range named {
			if n.name == upper {
				out |= n.flag
				break
			}
		}
	}
	return out
}

// String renders p as a pipe-joined list of its named flags, or "NONE".
func (p Permissions) String() string {
	names := p.ToVec()
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}
