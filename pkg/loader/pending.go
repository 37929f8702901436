package loader

import (
	"context"
	"sync"
)

// Pending is the completion handle returned by LoadAsync. It resolves
// exactly once, to either a configuration or an error, and supports both
// awaiting (Wait, Done) and listener-style consumption (Subscribe).
type Pending struct {
	done chan struct{}

	mu        sync.Mutex
	completed bool
	cfg       *Config
	err       error
	subs      []func(*Config, error)
}

// LoadAsync starts a load in the background and returns its completion
// handle immediately. Loads for different paths are fully independent
// and may run in parallel.
func LoadAsync(ctx context.Context, path string, opts *Options) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		cfg, err := Load(ctx, path, opts)
		p.complete(cfg, err)
	}()
	return p
}

func (p *Pending) complete(cfg *Config, err error) {
	p.mu.Lock()
	p.completed = true
	p.cfg = cfg
	p.err = err
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	close(p.done)
	for _, fn := range subs {
		fn(cfg, err)
	}
}

// Done returns a channel closed when the load has completed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the load completes or ctx is cancelled, returning
// the single success-or-error outcome.
func (p *Pending) Wait(ctx context.Context) (*Config, error) {
	select {
	case <-p.done:
		return p.cfg, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe registers a completion listener. A listener attached after
// completion fires immediately, on the caller's goroutine, with the
// already-computed result or error.
func (p *Pending) Subscribe(fn func(*Config, error)) {
	p.mu.Lock()
	if !p.completed {
		p.subs = append(p.subs, fn)
		p.mu.Unlock()
		return
	}
	cfg, err := p.cfg, p.err
	p.mu.Unlock()

	fn(cfg, err)
}
