// Package binder provides the generic list-loading adapter behind every
// table view: one endpoint, a mutable parameter bag, and a normalized
// result list with optional page metadata.
package binder

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
)

// Getter is the slice of the API client a binder needs.
type Getter interface {
	Get(ctx context.Context, path string, params api.Params) (json.RawMessage, error)
}

// Binder loads a collection resource and tracks its state. Data is never
// nil; a failed fetch keeps the previously loaded data and surfaces the
// error. Overlapping fetches resolve last-completed-wins via a generation
// counter.
type Binder[T any] struct {
	client Getter
	path   string

	mu         sync.Mutex
	params     api.Params
	data       []T
	page       *api.PageInfo
	loading    bool
	err        error
	enabled    bool
	generation uint64
}

// New creates an enabled binder for the given endpoint. The initial params
// are copied; callers mutate them through SetParams only.
func New[T any](client Getter, path string, initial api.Params) *Binder[T] {
	b := &Binder[T]{
		client:  client,
		path:    path,
		params:  api.Params{},
		data:    []T{},
		enabled: true,
	}
	for k, v := range initial {
		b.params[k] = v
	}
	return b
}

// Data returns the current result list. Never nil.
func (b *Binder[T]) Data() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Page returns pagination metadata, or nil when the endpoint answered with
// a plain array.
func (b *Binder[T]) Page() *api.PageInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// Loading reports whether a fetch is in flight.
func (b *Binder[T]) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Err returns the error of the most recent fetch, if any.
func (b *Binder[T]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Params returns a copy of the current parameter bag.
func (b *Binder[T]) Params() api.Params {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := api.Params{}
	for k, v := range b.params {
		out[k] = v
	}
	return out
}

// SetEnabled toggles the binder. Disabling resets it to an empty idle state
// and invalidates any in-flight request; enabling triggers exactly one
// fetch. Toggling to the current value is a no-op.
func (b *Binder[T]) SetEnabled(ctx context.Context, enabled bool) error {
	b.mu.Lock()
	if b.enabled == enabled {
		b.mu.Unlock()
		return nil
	}
	b.enabled = enabled
	if !enabled {
		b.generation++
		b.data = []T{}
		b.page = nil
		b.err = nil
		b.loading = false
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()
	_, err := b.Refetch(ctx)
	return err
}

// SetParams merges a partial parameter update into the bag and refetches.
// An update that changes nothing does not issue a request.
func (b *Binder[T]) SetParams(ctx context.Context, patch api.Params) error {
	b.mu.Lock()
	changed := false
	for k, v := range patch {
		if b.params[k] != v {
			b.params[k] = v
			changed = true
		}
	}
	b.mu.Unlock()
	if !changed {
		return nil
	}
	_, err := b.Refetch(ctx)
	return err
}

// Refetch re-issues the request with the current parameters and returns the
// raw response for callers that need direct access. A disabled binder
// issues no request.
func (b *Binder[T]) Refetch(ctx context.Context) (json.RawMessage, error) {
	b.mu.Lock()
	if !b.enabled {
		b.mu.Unlock()
		return nil, nil
	}
	b.generation++
	gen := b.generation
	b.loading = true
	params := api.Params{}
	for k, v := range b.params {
		params[k] = v
	}
	b.mu.Unlock()

	raw, err := b.client.Get(ctx, b.path, params)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		// A newer fetch superseded this one; discard its outcome.
		return raw, err
	}
	b.loading = false
	if err != nil {
		b.err = err
		return raw, err
	}
	items, page, err := api.DecodeList[T](raw)
	if err != nil {
		b.err = err
		return raw, err
	}
	b.data = items
	b.page = page
	b.err = nil
	return raw, nil
}
