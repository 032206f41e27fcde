package layout

import (
	"context"
	"sync/atomic"
)

// Canceler is polled by the engine at every subdivision step. Once Canceled
// returns true the layout stops and returns an empty tree.
//
// Canceled may be called from the layout goroutine while another goroutine
// requests cancellation, so implementations must be safe for that.
type Canceler interface {
	Canceled() bool
}

// CancelFlag is a Canceler that is triggered explicitly. The zero value is
// ready to use and not cancelled.
type CancelFlag struct {
	canceled atomic.Bool
}

// Cancel requests cancellation. It is safe to call from any goroutine and
// more than once.
func (f *CancelFlag) Cancel() { f.canceled.Store(true) }

// Canceled reports whether Cancel has been called.
func (f *CancelFlag) Canceled() bool { return f.canceled.Load() }

// CancelFunc adapts a plain function to a Canceler.
type CancelFunc func() bool

// Canceled calls f.
func (f CancelFunc) Canceled() bool { return f() }

// Never is a Canceler that never cancels.
var Never Canceler = CancelFunc(func() bool { return false })

// ContextCanceler cancels once ctx is done.
func ContextCanceler(ctx context.Context) Canceler {
	return CancelFunc(func() bool { return ctx.Err() != nil })
}
