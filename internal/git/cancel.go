package git

import "sync/atomic"

// Canceller is a shared cooperative cancellation flag. It is passed as an
// explicit handle rather than kept in a global so multiple engine
// instances can coexist in tests. Workers check it at defined points:
// before acquiring a concurrency permit and before starting a blocking
// VCS call. It never interrupts an already-started call.
type Canceller struct {
	flag atomic.Bool
}

// NewCanceller creates an unset cancellation handle.
func NewCanceller() *Canceller {
	return &Canceller{}
}

// Cancel sets the flag. Safe to call from any goroutine, idempotent.
func (c *Canceller) Cancel() {
	c.flag.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (c *Canceller) Cancelled() bool {
	return c.flag.Load()
}
