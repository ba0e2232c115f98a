package httpserver

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required,min=3"`
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":"acme","extra":1}`))
	var dst sampleRequest
	err := Decode(r, &dst)
	assert.Error(t, err)
}

func TestDecodeRejectsEmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(``))
	var dst sampleRequest
	err := Decode(r, &dst)
	assert.Error(t, err)
}

func TestDecodeAccepts(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":"acme"}`))
	var dst sampleRequest
	require.NoError(t, Decode(r, &dst))
	assert.Equal(t, "acme", dst.Name)
}

func TestValidateReportsFieldErrors(t *testing.T) {
	errs := Validate(sampleRequest{Name: "a"})
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
}

func TestValidatePasses(t *testing.T) {
	assert.Empty(t, Validate(sampleRequest{Name: "acme"}))
}
