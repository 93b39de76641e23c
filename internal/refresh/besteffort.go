// Package refresh keeps an auth session fresh: a periodic Scheduler and the
// best-effort call wrapper it shares with the focus-regain trigger.
package refresh

import (
	"context"
	"fmt"
	"log"
)

// Func asks the auth client to re-validate its session.
type Func func(ctx context.Context) error

// BestEffort runs fn and discards the outcome. Errors and panics are logged;
// nothing is returned or retried. Callers that must not wait run it in a
// goroutine.
func BestEffort(op string, fn Func) {
	if fn == nil {
		return
	}
	if err := call(fn); err != nil {
		log.Printf("%s failed: %v", op, err)
	}
}

// call invokes fn, converting a panic into an error.
func call(fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(context.Background())
}
