package cow

import (
	"sync/atomic"

	"github.com/cow-go/cow/internal/stack"
	"github.com/cow-go/cow/internal/xsync"
	"github.com/cow-go/cow/trace"
)

// Atomic is one copy-on-write handle shared by many goroutines.
// Readers never block. Writers are serialized, so concurrent Update calls never lose each other.
// The zero Atomic is usable and reads as the zero T.
type Atomic[T any] struct {
	p   atomic.Pointer[cell[T]]
	mu  xsync.Mutex
	cfg *config[T]
}

func NewAtomic[T any](v T, opts ...Option[T]) *Atomic[T] {
	a := &Atomic[T]{
		cfg: newConfig(opts...),
	}
	c := newCell(v)
	a.p.Store(c)
	if a.cfg.traced() {
		trace.ValueOnNew(a.cfg.trace, callSite(), a.cfg.typ, c.allocation)
	}

	return a
}

// Load returns a handle sharing the current allocation
func (a *Atomic[T]) Load() Value[T] {
	return Value[T]{
		c:   a.p.Load(),
		cfg: a.config(),
	}
}

func (a *Atomic[T]) Get() T {
	return a.p.Load().get()
}

// Store binds a to the allocation of v without copying
func (a *Atomic[T]) Store(v Value[T]) {
	var c stack.Caller
	if a.cfg.traced() {
		c = callSite()
	}
	a.mu.WithLock(func() {
		a.rebind(c, v.c)
	})
}

// Swap binds a to the allocation of v and returns a handle to the previous one
func (a *Atomic[T]) Swap(v Value[T]) Value[T] {
	var c stack.Caller
	if a.cfg.traced() {
		c = callSite()
	}

	return xsync.WithLock(&a.mu, func() Value[T] {
		return Value[T]{
			c:   a.rebind(c, v.c),
			cfg: a.config(),
		}
	})
}

// CompareAndSwap binds a to the allocation of v only if a is bound to the allocation of old
func (a *Atomic[T]) CompareAndSwap(old, v Value[T]) bool {
	var c stack.Caller
	if a.cfg.traced() {
		c = callSite()
	}

	return xsync.WithLock(&a.mu, func() bool {
		if a.p.Load() != old.c {
			return false
		}
		a.rebind(c, v.c)

		return true
	})
}

func (a *Atomic[T]) Set(v T) {
	var c stack.Caller
	if a.cfg.traced() {
		c = callSite()
	}
	next := newCell(v)
	a.mu.WithLock(func() {
		a.rebind(c, next)
	})
}

// Update duplicates the current value, lets f modify the copy and publishes the result.
// Concurrent writers wait until f returns, so f must be short. f runs under the writers lock
// and must not write to a: Set, Store, Swap, CompareAndSwap or Update of a from f deadlock.
func (a *Atomic[T]) Update(f func(v *T)) {
	var c stack.Caller
	if a.cfg.traced() {
		c = callSite()
	}
	_ = a.update(c, func(v *T) error {
		f(v)

		return nil
	})
}

// TryUpdate is like Update, but f may fail. On error nothing is published and the error of f is returned as is.
// As with Update, f must not write to a.
func (a *Atomic[T]) TryUpdate(f func(v *T) error) error {
	var c stack.Caller
	if a.cfg.traced() {
		c = callSite()
	}

	return a.update(c, f)
}

func (a *Atomic[T]) update(c stack.Caller, f func(v *T) error) error {
	cfg := a.config()

	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.p.Load()
	var onDone func(allocation uint64, _ error)
	if cfg.traced() {
		onDone = trace.ValueOnUpdate(cfg.trace, c, cfg.typ, prev.id())
	}

	next, err := cfg.derive(prev, f)
	if err != nil {
		if onDone != nil {
			onDone(prev.id(), err)
		}

		return err
	}

	a.p.Store(next)

	if onDone != nil {
		onDone(next.allocation, nil)
	}

	return nil
}

// rebind must be called under a.mu
func (a *Atomic[T]) rebind(c stack.Caller, next *cell[T]) (prev *cell[T]) {
	if !a.cfg.traced() {
		return a.p.Swap(next)
	}
	onDone := trace.ValueOnSet(a.cfg.trace, c, a.cfg.typ, a.p.Load().id())
	prev = a.p.Swap(next)
	onDone(next.id())

	return prev
}

func (a *Atomic[T]) config() *config[T] {
	if a.cfg == nil {
		return defaultConfig[T]()
	}

	return a.cfg
}
