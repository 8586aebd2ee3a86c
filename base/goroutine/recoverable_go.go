package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
)

// PanicError is what Go reports when f panics.
type PanicError struct {
	Panic interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Panic)
}

// Go runs f in a new goroutine. The returned channel gets f's error, or a *PanicError when f panics,
// and is closed afterwards.
func Go(c ctx.Ctx, name string, f func() error) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				stack := debug.Stack()
				c.WithFields(log.Fields{
					"goroutine": name,
					"err":       p,
					"stack":     string(stack),
				}).Error("panic")
				done <- &PanicError{Panic: p, Stack: stack}
			}
		}()

		if err := f(); err != nil {
			done <- err
		}
	}()

	return done
}
