package http

import (
	"net/http"

	"progdex/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler. The body
// runs through the binder, so handlers only see input that decoded and
// validated; everything else is already a 4xx envelope
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
