package httpserver

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffsetParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/organisations", nil)
	p, err := ParseOffsetParams(r)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset)
}

func TestParseOffsetParamsComputesOffset(t *testing.T) {
	r := httptest.NewRequest("GET", "/organisations?page=3&page_size=10", nil)
	p, err := ParseOffsetParams(r)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 20, p.Offset)
}

func TestParseOffsetParamsClampsPageSize(t *testing.T) {
	r := httptest.NewRequest("GET", "/organisations?page_size=9999", nil)
	p, err := ParseOffsetParams(r)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestParseOffsetParamsRejectsInvalidPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/organisations?page=0", nil)
	_, err := ParseOffsetParams(r)
	assert.Error(t, err)
}

func TestNewOffsetPage(t *testing.T) {
	items := []string{"a", "b"}
	page := NewOffsetPage(items, OffsetParams{Page: 2, PageSize: 2}, 5)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, 3, page.TotalPages)
}
