package binder

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
)

type row struct {
	ID int64 `json:"id"`
}

// fakeGetter scripts responses and records every issued request.
type fakeGetter struct {
	mu       sync.Mutex
	calls    []api.Params
	response json.RawMessage
	err      error
}

func (f *fakeGetter) Get(_ context.Context, _ string, params api.Params) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := api.Params{}
	for k, v := range params {
		copied[k] = v
	}
	f.calls = append(f.calls, copied)
	return f.response, f.err
}

func (f *fakeGetter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGetter) set(response string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.response = json.RawMessage(response)
	f.err = err
}

func TestBinderRefetch(t *testing.T) {
	g := &fakeGetter{}
	g.set(`{"content":[{"id":1},{"id":2}],"totalElements":2,"number":0,"size":10}`, nil)
	b := New[row](g, "/api/v1/lost-reports", nil)

	_, err := b.Refetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, b.Data(), 2)
	require.NotNil(t, b.Page())
	assert.Equal(t, int64(2), b.Page().TotalElements)
	assert.False(t, b.Loading())
	assert.NoError(t, b.Err())
}

func TestBinderDataNeverNil(t *testing.T) {
	g := &fakeGetter{}
	g.set(`null`, nil)
	b := New[row](g, "/x", nil)
	assert.NotNil(t, b.Data(), "before any fetch")
	_, err := b.Refetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, b.Data(), "after fetching a null body")
}

func TestBinderErrorKeepsPriorData(t *testing.T) {
	g := &fakeGetter{}
	g.set(`[{"id":1}]`, nil)
	b := New[row](g, "/x", nil)
	_, err := b.Refetch(context.Background())
	require.NoError(t, err)
	require.Len(t, b.Data(), 1)

	g.set("", fmt.Errorf("backend unavailable"))
	_, err = b.Refetch(context.Background())
	require.Error(t, err)
	assert.Len(t, b.Data(), 1, "stale data beats no data")
	assert.Error(t, b.Err())

	g.set(`[{"id":1},{"id":2}]`, nil)
	_, err = b.Refetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, b.Data(), 2)
	assert.NoError(t, b.Err(), "a successful fetch clears the error")
}

func TestBinderSetParams(t *testing.T) {
	g := &fakeGetter{}
	g.set(`[]`, nil)
	b := New[row](g, "/x", api.Params{"userId": "5"})

	require.NoError(t, b.SetParams(context.Background(), api.Params{"status": "PENDING"}))
	assert.Equal(t, 1, g.callCount())
	assert.Equal(t, api.Params{"userId": "5", "status": "PENDING"}, g.calls[0])

	require.NoError(t, b.SetParams(context.Background(), api.Params{"status": "PENDING"}))
	assert.Equal(t, 1, g.callCount(), "an unchanged patch issues no request")

	require.NoError(t, b.SetParams(context.Background(), api.Params{"status": ""}))
	assert.Equal(t, 2, g.callCount(), "clearing a filter is a change")
}

func TestBinderEnableDisable(t *testing.T) {
	g := &fakeGetter{}
	g.set(`[{"id":1}]`, nil)
	b := New[row](g, "/x", nil)
	_, err := b.Refetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, g.callCount())

	require.NoError(t, b.SetEnabled(context.Background(), false))
	assert.Empty(t, b.Data(), "disabling resets to the empty idle state")
	assert.Nil(t, b.Page())
	assert.NoError(t, b.Err())

	raw, err := b.Refetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Equal(t, 1, g.callCount(), "a disabled binder issues no requests")

	require.NoError(t, b.SetEnabled(context.Background(), false))
	assert.Equal(t, 1, g.callCount(), "re-disabling is a no-op")

	require.NoError(t, b.SetEnabled(context.Background(), true))
	assert.Equal(t, 2, g.callCount(), "enabling triggers exactly one fetch")
	assert.Len(t, b.Data(), 1)

	require.NoError(t, b.SetEnabled(context.Background(), true))
	assert.Equal(t, 2, g.callCount(), "re-enabling is a no-op")
}

// blockingGetter lets the test hold a fetch open while newer ones finish.
type blockingGetter struct {
	release  chan struct{}
	blockOne sync.Once
	inner    fakeGetter
}

func (g *blockingGetter) Get(ctx context.Context, path string, params api.Params) (json.RawMessage, error) {
	block := false
	g.blockOne.Do(func() { block = true })
	if block {
		<-g.release
		return json.RawMessage(`[{"id":1}]`), nil
	}
	return g.inner.Get(ctx, path, params)
}

func TestBinderLastWriteWins(t *testing.T) {
	g := &blockingGetter{release: make(chan struct{})}
	g.inner.set(`[{"id":2},{"id":3}]`, nil)
	b := New[row](g, "/x", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Refetch(context.Background())
	}()

	// The second fetch starts after the first and completes first.
	require.Eventually(t, func() bool { return b.Loading() }, time.Second, time.Millisecond)
	_, err := b.Refetch(context.Background())
	require.NoError(t, err)
	require.Len(t, b.Data(), 2)

	close(g.release)
	<-done
	assert.Len(t, b.Data(), 2, "the superseded fetch must not overwrite newer data")
	assert.Equal(t, int64(2), b.Data()[0].ID)
}
