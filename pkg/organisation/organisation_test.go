package organisation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugFromName(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":        "acme-corp",
		"  Acme   Corp  ":  "acme-corp",
		"Acme_Corp!!":      "acme-corp",
		"Déjà Vu Inc":      "d-j-vu-inc",
		"---leading-hyphen": "leading-hyphen",
	}
	for name, want := range cases {
		assert.Equal(t, want, SlugFromName(name), "name=%q", name)
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("acme-corp"))
	assert.True(t, ValidSlug("ab1"))
	assert.False(t, ValidSlug("-acme"))
	assert.False(t, ValidSlug("acme-"))
	assert.False(t, ValidSlug("ab"))
	assert.False(t, ValidSlug("Acme"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Acme Corp"))
	assert.False(t, ValidName("ab"))
	assert.False(t, ValidName("  ab  "))
	assert.False(t, ValidName(""))
}

func TestLimitsForPlan(t *testing.T) {
	assert.Equal(t, Limits{MaxInstances: 1, MaxUsers: 2, MaxStorageGB: 1}, LimitsForPlan(PlanFree))
	assert.Equal(t, LimitsForPlan(PlanFree), LimitsForPlan("unknown-plan"))
}

func TestUpdateCommandIsEmpty(t *testing.T) {
	assert.True(t, UpdateCommand{}.IsEmpty())
	name := "new name"
	assert.False(t, UpdateCommand{Name: &name}.IsEmpty())
}
