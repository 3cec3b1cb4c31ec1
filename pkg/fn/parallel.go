package fn

import (
	"context"
	"fmt"
	"sync"
)

// Task is a unit of fan-out work.
type Task func(context.Context) error

// Settle runs tasks concurrently and waits for all of them. Unlike an
// errgroup, one failure never cancels the others; the returned slice holds
// each task's error at its index.
func Settle(ctx context.Context, tasks ...Task) []error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					errs[i] = panicError{p}
				}
			}()
			errs[i] = t(ctx)
		}(i, t)
	}
	wg.Wait()
	return errs
}

type panicError struct{ v any }

func (p panicError) Error() string { return fmt.Sprintf("fn: task panicked: %v", p.v) }
