package xsync

import (
	"sync"
)

type Mutex struct { //nolint:gocritic
	sync.Mutex
}

func (l *Mutex) WithLock(f func()) {
	l.Lock()
	defer l.Unlock()

	f()
}

func WithLock[T any](l interface {
	Lock()
	Unlock()
}, f func() T) T {
	l.Lock()
	defer l.Unlock()

	return f()
}
