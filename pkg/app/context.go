package app

import (
	"context"
	"time"
)

// BackgroundTimeout bounds cleanup work that must outlive a cancelled caller context.
var BackgroundTimeout = 30 * time.Second

// BackgroundTimeoutContext is detached from any caller so shutdown requests still go out
// after the work context is cancelled.
func BackgroundTimeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), BackgroundTimeout)
}
