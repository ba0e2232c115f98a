// Package identity models the authenticated principal consumed by every
// application service. It is deliberately a tagged sum (not a single
// struct with optional fields) to mirror the source's User/Client split.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Kind discriminates the two shapes an Identity can take.
type Kind string

const (
	// KindUser identifies a human operator authenticated through the OIDC
	// token validator.
	KindUser Kind = "user"
	// KindClient identifies a service principal (e.g. Herald) authenticated
	// via client-credentials.
	KindClient Kind = "client"
)

// ServiceUsername is the well-known username fetch_actions requires of the
// caller: only the Herald service identity may drain the action log.
const ServiceUsername = "herald-service"

// Identity is the principal extracted from a bearer token by the (out of
// scope) token validator. Application services never see a raw token —
// only this value, already authenticated.
type Identity struct {
	Kind Kind

	// User fields (Kind == KindUser).
	UserID   uuid.UUID
	Username string
	Email    string

	// Client fields (Kind == KindClient).
	ClientID string
	Scopes   []string

	// Roles is the list of role names the token carries for the
	// organisation currently in scope. Permission resolution joins these
	// against the roles table.
	Roles []string

	// Sub is the external subject claim, unique per identity provider.
	Sub string
}

// IsService reports whether this identity is the Herald worker's service
// account, the only caller permitted to call fetch_actions.
func (i Identity) IsService() bool {
	return i.Kind == KindClient && i.Username == ServiceUsername
}

type contextKey struct{}

// NewContext returns a context carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the Identity stored by auth middleware. ok is false
// if no identity was stashed in ctx.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
