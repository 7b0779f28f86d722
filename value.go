package cow

import (
	"fmt"

	"github.com/cow-go/cow/internal/stack"
	"github.com/cow-go/cow/trace"
)

// Value is a copy-on-write handle to a shared immutable allocation of T.
// The zero Value is usable and reads as the zero T.
type Value[T any] struct {
	c   *cell[T]
	cfg *config[T]
}

// New allocates a shared value holding v
func New[T any](v T, opts ...Option[T]) Value[T] {
	cfg := newConfig(opts...)
	c := newCell(v)
	if cfg.traced() {
		trace.ValueOnNew(cfg.trace, callSite(), cfg.typ, c.allocation)
	}

	return Value[T]{
		c:   c,
		cfg: cfg,
	}
}

// Clone returns a handle to the same allocation. It is equivalent to assignment.
func (v Value[T]) Clone() Value[T] {
	if v.cfg.traced() {
		trace.ValueOnClone(v.cfg.trace, callSite(), v.cfg.typ, v.c.id())
	}

	return v
}

// Get returns the current value. Get never allocates.
// The result must not be modified.
func (v Value[T]) Get() T {
	return v.c.get()
}

// Set binds v to a fresh allocation holding val. Other handles are not affected.
func (v *Value[T]) Set(val T) {
	cfg := v.config()
	var onDone func(allocation uint64)
	if cfg.traced() {
		onDone = trace.ValueOnSet(cfg.trace, callSite(), cfg.typ, v.c.id())
	}

	v.c = newCell(val)

	if onDone != nil {
		onDone(v.c.allocation)
	}
}

// Update duplicates the current value, lets f modify the private copy and binds v to
// a fresh allocation holding the result. The value is duplicated even if f changes nothing.
func (v *Value[T]) Update(f func(val *T)) {
	var c stack.Caller
	if v.cfg.traced() {
		c = callSite()
	}
	_ = v.update(c, func(val *T) error {
		f(val)

		return nil
	})
}

// TryUpdate is like Update, but f may fail. On error v stays bound to its original
// allocation and the error of f is returned as is.
func (v *Value[T]) TryUpdate(f func(val *T) error) error {
	var c stack.Caller
	if v.cfg.traced() {
		c = callSite()
	}

	return v.update(c, f)
}

func (v *Value[T]) update(c stack.Caller, f func(val *T) error) error {
	cfg := v.config()
	var onDone func(allocation uint64, _ error)
	if cfg.traced() {
		onDone = trace.ValueOnUpdate(cfg.trace, c, cfg.typ, v.c.id())
	}

	next, err := cfg.derive(v.c, f)
	if err != nil {
		if onDone != nil {
			onDone(v.c.id(), err)
		}

		return err
	}

	v.c = next

	if onDone != nil {
		onDone(next.allocation, nil)
	}

	return nil
}

// Same reports whether v and other share one allocation
func (v Value[T]) Same(other Value[T]) bool {
	return v.c == other.c
}

// Equal compares values, not allocations. Handles with equal values may be not Same.
func (v Value[T]) Equal(other Value[T]) bool {
	cfg := v.cfg
	if cfg == nil {
		cfg = defaultConfig[T]()
	}

	return cfg.equal(v.Get(), other.Get())
}

func (v Value[T]) String() string {
	return fmt.Sprint(v.Get())
}

func (v *Value[T]) config() *config[T] {
	if v.cfg == nil {
		v.cfg = defaultConfig[T]()
	}

	return v.cfg
}
