package cow

import (
	"sync/atomic"
)

// allocations numbers every cell, zero is reserved for unbound handles
var allocations atomic.Uint64

// cell is a shared allocation. Its value never changes after newCell returns.
type cell[T any] struct {
	value      T
	allocation uint64
}

func newCell[T any](v T) *cell[T] {
	return &cell[T]{
		value:      v,
		allocation: allocations.Add(1),
	}
}

func (c *cell[T]) id() uint64 {
	if c == nil {
		return 0
	}

	return c.allocation
}

func (c *cell[T]) get() (v T) {
	if c == nil {
		return v
	}

	return c.value
}
