package httpkit

import (
	"net/http"

	perrs "progdex/internal/platform/errors"
	pnet "progdex/internal/platform/net"
)

// Operator returns the authenticated operator id the auth middleware put
// on the context. On routes outside Protected it returns unauthorized
func Operator(r *http.Request) (string, error) {
	id := pnet.OperatorID(r.Context())
	if id == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return id, nil
}
