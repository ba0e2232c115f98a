package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	perms := ViewOrganisation | ViewInstances
	assert.True(t, perms.Can(ViewOrganisation))
	assert.True(t, perms.Can(ViewInstances))
	assert.False(t, perms.Can(ManageOrganisation))
}

func TestAdministratorDoesNotImplyOtherBits(t *testing.T) {
	perms := Administrator
	assert.True(t, perms.Can(Administrator))
	assert.False(t, perms.Can(ManageOrganisation))
	assert.False(t, perms.Can(DeleteInstances))
}

func TestUnionAll(t *testing.T) {
	assert.Equal(t, Permissions(0), UnionAll(nil))

	result := UnionAll([]Permissions{
		ViewOrganisation,
		ViewInstances | CreateInstances,
		ViewMembers,
	})
	assert.True(t, result.Can(ViewOrganisation))
	assert.True(t, result.Can(ViewInstances))
	assert.True(t, result.Can(CreateInstances))
	assert.True(t, result.Can(ViewMembers))
	assert.False(t, result.Can(ManageOrganisation))
}

func TestUnionAllIsAssociativeAndCommutative(t *testing.T) {
	a, b, c := ViewOrganisation, ManageOrganisation, ViewInstances
	assert.Equal(t, UnionAll([]Permissions{a, b, c}), (a | b) | c)
	assert.Equal(t, UnionAll([]Permissions{a, b, c}), UnionAll([]Permissions{c, b, a}))
}

func TestHasAny(t *testing.T) {
	perms := ViewOrganisation
	assert.False(t, perms.HasAny(nil))
	assert.True(t, perms.HasAny([]Permissions{ViewOrganisation}))
	assert.False(t, perms.HasAny([]Permissions{ManageOrganisation, ViewInstances}))
}

func TestHasAll(t *testing.T) {
	perms := ViewOrganisation | ViewInstances
	assert.True(t, perms.HasAll([]Permissions{ViewOrganisation}))
	assert.True(t, perms.HasAll([]Permissions{ViewOrganisation, ViewInstances}))
	assert.False(t, perms.HasAll([]Permissions{ViewOrganisation, ManageOrganisation}))
}

func TestToVec(t *testing.T) {
	assert.Empty(t, Permissions(0).ToVec())

	perms := ViewOrganisation | ManageOrganisation | ViewInstances
	vec := perms.ToVec()
	assert.Len(t, vec, 3)
	assert.Contains(t, vec, "VIEW_ORGANISATION")
	assert.Contains(t, vec, "MANAGE_ORGANISATION")
	assert.Contains(t, vec, "VIEW_INSTANCES")
}

func TestToVecOmitsUnnamedHighBits(t *testing.T) {
	perms := ManageRoles | ViewBilling | ManageBilling | Administrator
	assert.Empty(t, perms.ToVec())
}

func TestAdminHasAllButAdministratorBit(t *testing.T) {
	perms := ViewOrganisation | ManageOrganisation | ViewInstances | CreateInstances |
		ManageInstances | DeleteInstances | ViewMembers | InviteMembers | ManageMembers |
		KickMembers | ViewRoles | ManageRoles | ViewBilling | ManageBilling

	assert.True(t, perms.Can(ManageOrganisation))
	assert.True(t, perms.Can(DeleteInstances))
	assert.True(t, perms.Can(ManageBilling))
	assert.False(t, perms.Can(Administrator))
}
