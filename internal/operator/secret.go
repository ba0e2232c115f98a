package operator

import (
	"crypto/rand"
	"fmt"
)

const adminPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// generateAdminPassword returns a random 32-char alphanumeric string, used
// to seed the {instance}-admin secret the first time SecretProjection runs
// (spec §4.6). It is never regenerated once the secret exists.
func generateAdminPassword() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	out := make([]byte, 32)
	for i, v := range b {
		out[i] = adminPasswordAlphabet[int(v)%len(adminPasswordAlphabet)]
	}
	return string(out), nil
}
