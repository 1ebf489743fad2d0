package http

import (
	"net/http"

	"zkcommit/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler
func JSONHandler[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		return result(fn(r))
	})
}

// result lets handlers return a ready Response as their value
func result(out any, err error) Response {
	if resp, ok := out.(Response); ok {
		if err != nil && resp.Err == nil {
			resp.Err = err
		}
		return resp
	}
	if err != nil {
		return Error(err)
	}
	return OK(out)
}
