package cow

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	clone "github.com/huandu/go-clone"
	"google.golang.org/protobuf/proto"
)

// Cloner is implemented by types which know how to duplicate themselves.
// Clone must return a value which shares no mutable memory with the receiver.
type Cloner[T any] interface {
	Clone() T
}

// Equaler is implemented by types with own value equality
type Equaler[T any] interface {
	Equal(other T) bool
}

// duplicate is the default copier: Cloner, then proto.Clone, then reflective deep copy
func duplicate[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	if c, ok := any(&v).(Cloner[T]); ok {
		return c.Clone()
	}
	if m, ok := any(v).(proto.Message); ok {
		c, _ := proto.Clone(m).(T)

		return c
	}
	c, _ := clone.Clone(v).(T)

	return c
}

// equalOptions make cmp look into unexported fields. Nested handles and other Equaler
// fields are compared with their Equal methods, nested messages with proto.Equal.
var equalOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool {
		return true
	}),
	cmp.Comparer(func(a, b proto.Message) bool {
		return proto.Equal(a, b)
	}),
}

// equal is the default equality: Equaler, then proto.Equal, then cmp.Equal
func equal[T any](a, b T) bool {
	if e, ok := any(a).(Equaler[T]); ok {
		return e.Equal(b)
	}
	if e, ok := any(&a).(Equaler[T]); ok {
		return e.Equal(b)
	}
	if m, ok := any(a).(proto.Message); ok {
		n, _ := any(b).(proto.Message)

		return proto.Equal(m, n)
	}

	return cmp.Equal(a, b, equalOptions...)
}
