package middleware

import (
	"net/http"

	pnet "progdex/internal/platform/net"
)

// AuthPort is the seam the operator auth layer implements
type AuthPort interface {
	// Parse returns an operator id from the request or an error
	Parse(r *http.Request) (operatorID string, err error)
}

// Auth guards a route group with the given port. A nil port leaves the
// group open, which is how public routes share the stack. write receives
// the mapped status and envelope so this package stays decoupled from the
// response writer
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			id, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithOperator(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
