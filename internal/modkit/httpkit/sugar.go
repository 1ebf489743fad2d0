package httpkit

import (
	"net/http"

	phttp "zkcommit/internal/platform/net/http"
)

// GetJSON mounts a pure JSON handler under GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// DeleteJSON mounts a pure JSON handler under DELETE
func DeleteJSON(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.DeleteJSON(r, path, h)
}

// PostJSON mounts a JSON body handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PostJSON(r, path, h, opts...)
}

// PutJSON mounts a JSON body handler under PUT
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PutJSON(r, path, h, opts...)
}

// Post registers a no-body handler under POST
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.JSONHandlerNoBody(h))
}
