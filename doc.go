/*
Package cow provides copy-on-write shared values.

A Value is a handle to an immutable allocation. Copying a handle, with Clone or with plain
assignment, shares the allocation. Set and Update bind only the changed handle to a fresh
allocation; every other handle keeps reading the data it had.

	defaults := cow.New(Config{Retries: 3})
	custom := defaults.Clone()
	custom.Update(func(c *Config) {
		c.Retries = 5
	})
	// defaults.Get().Retries == 3, custom.Get().Retries == 5

Values returned by Get must be treated as read-only: for slices, maps and pointers they alias
the shared allocation.

A Value is not safe for concurrent rebinding. Share one handle between goroutines with Atomic.
*/
package cow
