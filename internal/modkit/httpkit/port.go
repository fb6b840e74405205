package httpkit

import (
	"net/http"
	"strings"

	perrs "progdex/internal/platform/errors"
)

// TokenFunc resolves a bearer token to the operator id it belongs to
type TokenFunc func(token string) (operatorID string, err error)

// Port implements middleware.AuthPort by reading Authorization and
// delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the operator id from an Authorization bearer token.
// A missing, malformed, or rejected token reads as unauthorized
func (p *Port) Parse(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	if s == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	const prefix = "bearer"
	if !strings.HasPrefix(strings.ToLower(s), prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}

	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	id, err := p.parse(raw)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return id, nil
}

// StaticTokenPort builds a Port that accepts exactly one operator token.
// Single-operator deployments keep the token in config; an empty token
// keeps the guarded routes closed
func StaticTokenPort(token, operatorID string) *Port {
	return NewPortFunc(func(raw string) (string, error) {
		if token == "" || raw != token {
			return "", perrs.Unauthorizedf("invalid bearer token")
		}
		return operatorID, nil
	})
}
