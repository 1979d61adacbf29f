// Package lookup implements "pick one from a searchable reference set"
// widgets: an initial resolution of the stored value plus a debounced live
// search where the newest query always wins.
package lookup

import (
	"context"
	"strings"
	"sync"
	"time"
)

const DefaultDebounce = 500 * time.Millisecond

type SearchFunc[T any] func(ctx context.Context, query string) ([]T, error)

// ResolveFunc looks up the full record for a stored value. ok=false means the
// value no longer exists in the reference data.
type ResolveFunc[T any] func(ctx context.Context) (item T, ok bool, err error)

type Result[T any] struct {
	Field string
	Query string
	Items []T
	Seed  bool
}

type Options[T any] struct {
	Name     string
	Debounce time.Duration
	Search   SearchFunc[T]
	// Normalize maps raw input to the query used for dedupe and search.
	// Defaults to TrimLower.
	Normalize func(string) string
	// Guard rejects queries while a precondition is unmet.
	Guard func() bool
	// Sink receives results. It runs under the field lock and must not call
	// back into the field.
	Sink    func(Result[T])
	OnError func(error)
}

// Field is the per-widget state machine. Seed feeds the initial value, Query
// feeds user input; both end up in Sink. Close ties everything to the owning
// component's lifetime.
type Field[T any] struct {
	opts      Options[T]
	ctx       context.Context
	cancel    context.CancelFunc
	debouncer *Debouncer

	mu         sync.Mutex
	pending    string
	last       string
	hasLast    bool
	generation uint64
	inflight   context.CancelFunc
	seeded     bool
	closed     bool
	wg         sync.WaitGroup
}

func NewField[T any](parent context.Context, opts Options[T]) *Field[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Normalize == nil {
		opts.Normalize = TrimLower
	}
	if opts.Sink == nil {
		opts.Sink = func(Result[T]) {}
	}
	ctx, cancel := context.WithCancel(parent)
	return &Field[T]{
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		debouncer: NewDebouncer(opts.Debounce),
	}
}

func (f *Field[T]) Name() string {
	return f.opts.Name
}

// Seed resolves the stored value once per activation. Unmatched values are
// dropped silently and the seed never overrides a live query already issued.
func (f *Field[T]) Seed(resolve ResolveFunc[T]) {
	f.mu.Lock()
	if f.seeded || f.closed {
		f.mu.Unlock()
		return
	}
	f.seeded = true
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		item, ok, err := resolve(f.ctx)
		if err != nil {
			f.fail(err)
			return
		}
		if !ok {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed || f.generation != 0 {
			return
		}
		f.opts.Sink(Result[T]{Field: f.opts.Name, Items: []T{item}, Seed: true})
	}()
}

// Query feeds raw user input. Blank input and input rejected by the guard
// never reach the debouncer.
func (f *Field[T]) Query(text string) {
	if strings.TrimSpace(text) == "" || !f.allowed() {
		return
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.pending = text
	f.mu.Unlock()
	f.debouncer.Debounce(f.fire)
}

// Reset forgets the last settled query so the same text searches again,
// e.g. after the city guard's state changed.
func (f *Field[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hasLast = false
	f.last = ""
	f.generation++
	if f.inflight != nil {
		f.inflight()
		f.inflight = nil
	}
	f.debouncer.Cancel()
}

func (f *Field[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	if f.inflight != nil {
		f.inflight()
		f.inflight = nil
	}
	f.mu.Unlock()

	f.debouncer.Stop()
	f.cancel()
	f.wg.Wait()
}

func (f *Field[T]) allowed() bool {
	return f.opts.Guard == nil || f.opts.Guard()
}

func (f *Field[T]) fire() {
	if !f.allowed() {
		return
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	query := f.opts.Normalize(f.pending)
	if f.hasLast && query == f.last {
		f.mu.Unlock()
		observe(f.opts.Name, outcomeDuplicate)
		return
	}
	f.last, f.hasLast = query, true
	f.generation++
	gen := f.generation
	if f.inflight != nil {
		f.inflight()
		observe(f.opts.Name, outcomeSuperseded)
	}
	ctx, cancel := context.WithCancel(f.ctx)
	f.inflight = cancel
	f.wg.Add(1)
	f.mu.Unlock()

	observe(f.opts.Name, outcomeIssued)
	go f.run(ctx, cancel, gen, query)
}

func (f *Field[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, query string) {
	defer f.wg.Done()
	defer cancel()

	items, err := f.opts.Search(ctx, query)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.generation || ctx.Err() != nil {
		return
	}
	f.inflight = nil
	if err != nil {
		observe(f.opts.Name, outcomeFailed)
		if f.opts.OnError != nil {
			f.opts.OnError(err)
		}
		return
	}
	observe(f.opts.Name, outcomeDelivered)
	f.opts.Sink(Result[T]{Field: f.opts.Name, Query: query, Items: items})
}

func (f *Field[T]) fail(err error) {
	if f.opts.OnError != nil && f.ctx.Err() == nil {
		f.opts.OnError(err)
	}
}
