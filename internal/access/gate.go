// Package access decides whether a request may render a document: either
// the shared form password matches, or the request carried a known
// integration API key.
package access

import (
	"crypto/subtle"

	"loadplan/internal/domain"
)

// Gate checks the shared secret. An empty secret disables the check.
type Gate struct {
	secret string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Authorize returns domain.ErrForbidden unless apiKeyOK is set or password
// equals the configured secret.
func (g *Gate) Authorize(password string, apiKeyOK bool) error {
	if apiKeyOK || g.secret == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.secret)) == 1 {
		return nil
	}
	return domain.ErrForbidden
}
