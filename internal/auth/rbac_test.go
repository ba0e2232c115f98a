package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherhq/control-plane/pkg/identity"
)

func TestRequireServiceRejectsUnauthenticated(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RequireService(okHandler).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireServiceRejectsNonServiceUser(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := identity.NewContext(r.Context(), identity.Identity{Kind: identity.KindUser, Username: "jdoe"})
	w := httptest.NewRecorder()

	RequireService(okHandler).ServeHTTP(w, r.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireServiceAllowsHeraldIdentity(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := identity.NewContext(r.Context(), identity.Identity{Kind: identity.KindClient, Username: identity.ServiceUsername})
	w := httptest.NewRecorder()

	RequireService(okHandler).ServeHTTP(w, r.WithContext(ctx))

	assert.Equal(t, http.StatusOK, w.Code)
}
