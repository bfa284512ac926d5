package domain

import (
	"context"
	"encoding/json"
)

// RootLocator narrows a parsed response down to the list (or single object) to iterate.
// A nil RootLocator is the identity.
type RootLocator func(root json.RawMessage) (json.RawMessage, error)

// Resource binds an endpoint path to the shape of its raw records (R) and the
// projection into caller-facing records (P).
type Resource[R, P any] struct {
	// Name labels metrics, spans and errors, e.g. "user".
	Name string
	// Path is relative to the base URL; a leading slash is optional.
	Path string
	Root RootLocator
	// Required lists JSON paths (dot separated) that every raw record must contain.
	// A present null satisfies the requirement.
	Required []string
	Project  func(R) P
}

// Identity is the default projection.
func Identity[T any]() func(T) T {
	return func(v T) T { return v }
}

// Handler receives records pushed by an accessor. Returning an error stops delivery.
type Handler[T any] func(T) error

// Fetcher performs one GET against the service and returns the parsed JSON body.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (json.RawMessage, error)
}
