package deployment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind(KindKeycloak))
	assert.True(t, ValidKind(KindFerrisKey))
	assert.False(t, ValidKind("openldap"))
	assert.False(t, ValidKind(""))
}

func TestIsDeleted(t *testing.T) {
	assert.False(t, Deployment{}.IsDeleted())
}
