// Package auth wires the external token validator spec.md's auth_middleware
// assumes into the HTTP stack: extract the bearer token, validate it, stash
// the resulting identity.Identity in the request context.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/pkg/identity"
)

// oidcClaims are the JWT claims the default validator extracts. roles and
// client_id are non-standard but widely used custom claims; an identity
// provider issuing tokens for this control plane is expected to populate
// them via a claim mapper.
type oidcClaims struct {
	Subject   string   `json:"sub"`
	Email     string   `json:"email"`
	Username  string   `json:"preferred_username"`
	Roles     []string `json:"roles"`
	ClientID  string   `json:"client_id"`
	Scopes    []string `json:"scope"`
	TokenUUID string   `json:"user_id"`
}

// Validator is the external token validator contract spec.md's auth
// middleware sits in front of. It is satisfied by OIDCValidator and by test
// doubles.
type Validator interface {
	Validate(ctx context.Context, rawToken string) (identity.Identity, error)
}

// OIDCValidator validates bearer JWTs against an OIDC issuer's published
// JWKS and maps claims onto identity.Identity.
type OIDCValidator struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCValidator performs OIDC discovery against issuerURL and returns a
// Validator backed by the discovered JWKS. Discovery makes a network call.
func NewOIDCValidator(ctx context.Context, issuerURL, audience string) (*OIDCValidator, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("discovering OIDC provider %s: %w", issuerURL, err)
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: audience})
	return &OIDCValidator{verifier: verifier}, nil
}

// Validate verifies rawToken's signature and expiry and maps its claims onto
// an identity.Identity. A client_id claim selects KindClient (service
// principals, e.g. Herald); otherwise the token belongs to a human user.
func (v *OIDCValidator) Validate(ctx context.Context, rawToken string) (identity.Identity, error) {
	if rawToken == "" {
		return identity.Identity{}, fmt.Errorf("empty bearer token")
	}

	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("verifying token: %w", err)
	}

	var claims oidcClaims
	if err := idToken.Claims(&claims); err != nil {
		return identity.Identity{}, fmt.Errorf("extracting claims: %w", err)
	}
	if claims.Subject == "" {
		return identity.Identity{}, fmt.Errorf("token missing sub claim")
	}

	if claims.ClientID != "" {
		return identity.Identity{
			Kind:     identity.KindClient,
			ClientID: claims.ClientID,
			Username: claims.Username,
			Scopes:   claims.Scopes,
			Roles:    claims.Roles,
			Sub:      claims.Subject,
		}, nil
	}

	id := identity.Identity{
		Kind:     identity.KindUser,
		Username: claims.Username,
		Email:    claims.Email,
		Roles:    claims.Roles,
		Sub:      claims.Subject,
	}
	if claims.TokenUUID != "" {
		if parsed, err := uuid.Parse(claims.TokenUUID); err == nil {
			id.UserID = parsed
		}
	}

	return id, nil
}

// bearerToken extracts the raw token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) {
		return "", false
	}
	if !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
