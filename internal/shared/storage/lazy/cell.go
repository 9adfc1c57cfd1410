// Package lazy holds process-wide values that are expensive to create,
// such as database clients reused across requests of one execution environment.
package lazy

import "sync"

// Cell initializes a value at most once at a time. Concurrent callers that
// arrive while an initialization is in flight wait for its outcome instead of
// starting their own. A failed initialization is not cached: the next Get
// tries again.
type Cell[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	val      T
	ready    bool
	inFlight bool
}

// Get returns the cached value, or runs init to produce it. The boolean
// result reports whether the cached value was reused.
func (c *Cell[T]) Get(init func() (T, error)) (T, bool, error) {
	c.mu.Lock()
	if c.cond == nil {
		c.cond = sync.NewCond(&c.mu)
	}
	for c.inFlight && !c.ready {
		c.cond.Wait()
	}
	if c.ready {
		val := c.val
		c.mu.Unlock()
		return val, true, nil
	}
	c.inFlight = true
	c.mu.Unlock()

	var (
		val T
		err error
		ok  bool
	)
	// A panicking init is not cached and still releases waiting callers.
	defer func() {
		c.mu.Lock()
		if ok && err == nil {
			c.val = val
			c.ready = true
		}
		c.inFlight = false
		c.cond.Broadcast()
		c.mu.Unlock()
	}()
	val, err = init()
	ok = true

	return val, false, err
}

// Peek returns the cached value without initializing it.
func (c *Cell[T]) Peek() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val, c.ready
}

// Reset drops the cached value. It does not release the value.
func (c *Cell[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.val = zero
	c.ready = false
}
