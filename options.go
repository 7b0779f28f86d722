package cow

import (
	"reflect"

	clone "github.com/huandu/go-clone"

	"github.com/cow-go/cow/internal/xsync"
	"github.com/cow-go/cow/log"
	"github.com/cow-go/cow/trace"
)

// config is shared by every handle of one lineage and never changes after newConfig.
type config[T any] struct {
	copier func(T) T
	equal  func(a, b T) bool
	trace  *trace.Value
	typ    string
}

// Option contains configuration values for Value and Atomic
type Option[T any] func(c *config[T])

// WithCopier sets the function which duplicates a value before Update.
// The copier must return a value which shares no mutable memory with its argument.
func WithCopier[T any](copier func(v T) T) Option[T] {
	return func(c *config[T]) {
		c.copier = copier
	}
}

// WithShallowCopy duplicates values by assignment. Use it only for types without
// pointers, slices or maps, there it skips reflection.
func WithShallowCopy[T any]() Option[T] {
	return func(c *config[T]) {
		c.copier = func(v T) T {
			return v
		}
	}
}

// WithEqual sets the value equality used by Value.Equal
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(c *config[T]) {
		c.equal = equal
	}
}

// WithTrace appends t into value traces
func WithTrace[T any](t trace.Value, opts ...trace.ValueComposeOption) Option[T] { //nolint:gocritic
	return func(c *config[T]) {
		c.trace = c.trace.Compose(&t, opts...)
	}
}

// WithLogger appends logging of events selected by details into value traces
func WithLogger[T any](l log.Logger, details trace.Detailer, opts ...trace.ValueComposeOption) Option[T] {
	return WithTrace[T](log.Value(l, details), opts...)
}

// newConfig returns the shared per-type default when no options are given
func newConfig[T any](opts ...Option[T]) *config[T] {
	d := defaultConfig[T]()
	if len(opts) == 0 {
		return d
	}
	c := &config[T]{
		typ: d.typ,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.copier == nil {
		c.copier = d.copier
	}
	if c.equal == nil {
		c.equal = d.equal
	}

	return c
}

// defaults holds configs of handles created without options, one per type
var defaults xsync.Map[reflect.Type, any]

func defaultConfig[T any]() *config[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if c, ok := defaults.Load(key); ok {
		return c.(*config[T]) //nolint:forcetypeassert
	}

	// nested handles are shared by a deep copy, not duplicated
	clone.MarkAsOpaquePointer(reflect.TypeOf((*cell[T])(nil)))
	clone.MarkAsOpaquePointer(reflect.TypeOf((*config[T])(nil)))

	c, _ := defaults.LoadOrStore(key, &config[T]{
		copier: duplicate[T],
		equal:  equal[T],
		typ:    key.String(),
	})

	return c.(*config[T]) //nolint:forcetypeassert
}

// derive builds the allocation which Update binds to. from is never modified.
func (c *config[T]) derive(from *cell[T], f func(v *T) error) (*cell[T], error) {
	var v T
	if from != nil {
		v = c.copier(from.value)
	}
	if err := f(&v); err != nil {
		return nil, err
	}

	return newCell(v), nil
}

func (c *config[T]) traced() bool {
	return c != nil && c.trace != nil
}
