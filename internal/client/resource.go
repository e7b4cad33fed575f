package client

import (
	"context"
	"net/http"
)

// Resource binds the five CRUD operations to one REST base path. Every
// resource (categories, suppliers, items, vehicles, repairs, services,
// stock transactions) shares this implementation; pages differ only in
// configuration.
type Resource[T any] struct {
	c    *Client
	base string
}

// NewResource builds a typed service for basePath, e.g. "/api/items".
func NewResource[T any](c *Client, basePath string) *Resource[T] {
	return &Resource[T]{c: c, base: basePath}
}

// BasePath returns the bound path; orchestration uses it for navigation.
func (r *Resource[T]) BasePath() string {
	return r.base
}

// List fetches one page of entities. Zero matches is a success with an
// empty slice, not an error.
func (r *Resource[T]) List(ctx context.Context, q Query) (Outcome[[]T], error) {
	status, body, err := r.c.do(ctx, http.MethodGet, r.base, q.Values(), nil)
	if err != nil {
		return Outcome[[]T]{Message: err.Error()}, err
	}
	out, err := decodeOutcome[[]T](status, body)
	if err == nil && out.Data == nil {
		out.Data = []T{}
	}
	if err == nil && out.Pages < 1 {
		out.Pages = TotalPages(out.Count, q.Limit)
	}
	return out, err
}

// Get fetches a single entity by id. Both the wrapped outcome shape and a
// bare entity body are accepted.
func (r *Resource[T]) Get(ctx context.Context, id string) (Outcome[T], error) {
	status, body, err := r.c.do(ctx, http.MethodGet, r.base+"/"+id, nil, nil)
	if err != nil {
		return Outcome[T]{Message: err.Error()}, err
	}
	return decodeOutcome[T](status, body)
}

// Create posts a new entity; the returned Data carries the assigned id.
func (r *Resource[T]) Create(ctx context.Context, input any) (Outcome[T], error) {
	status, body, err := r.c.do(ctx, http.MethodPost, r.base, nil, input)
	if err != nil {
		return Outcome[T]{Message: err.Error()}, err
	}
	return decodeOutcome[T](status, body)
}

// Update applies a partial update; omitted fields stay untouched
// server-side.
func (r *Resource[T]) Update(ctx context.Context, id string, input any) (Outcome[T], error) {
	status, body, err := r.c.do(ctx, http.MethodPut, r.base+"/"+id, nil, input)
	if err != nil {
		return Outcome[T]{Message: err.Error()}, err
	}
	return decodeOutcome[T](status, body)
}

// Delete removes an entity. Success tracks the transport status: a 2xx on
// an already-gone entity still reads as success.
func (r *Resource[T]) Delete(ctx context.Context, id string) (Outcome[struct{}], error) {
	status, body, err := r.c.do(ctx, http.MethodDelete, r.base+"/"+id, nil, nil)
	if err != nil {
		return Outcome[struct{}]{Message: err.Error()}, err
	}
	return decodeOutcome[struct{}](status, body)
}
