// Package singleflight coalesces concurrent calls that share a key so a
// single upstream request serves every caller.
package singleflight

import (
	"context"
	"sync"
)

// call represents an active or completed function call.
type call struct {
	done chan struct{}
	val  any
	err  error
}

// Group manages a set of in-flight calls keyed by string.
type Group struct {
	mu sync.Mutex
	m  map[string]*call
}

// New creates a new singleflight Group.
func New() *Group {
	return &Group{m: make(map[string]*call)}
}

// Do executes fn, making sure only one execution is in flight for key at a
// time. Duplicate callers wait for the owner and receive the same result;
// shared reports whether the result came from another caller's execution.
// A waiter whose context is cancelled unblocks with ctx.Err() while the
// owner's call keeps running.
func (g *Group) Do(ctx context.Context, key string, fn func() (any, error)) (val any, err error, shared bool) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err, true
		case <-ctx.Done():
			return nil, ctx.Err(), false
		}
	}

	c := &call{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	if g.m[key] == c {
		delete(g.m, key)
	}
	g.mu.Unlock()
	close(c.done)

	return c.val, c.err, false
}

// Forget removes key, letting the next call for it execute immediately
// even if an earlier call is still in flight.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
