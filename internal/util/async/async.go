// Package async provides a small helper for running independent
// operations concurrently. Deployment verification uses it to run the
// endpoint probe and the log query in parallel instead of serially
// waiting on two network round trips.
package async

import (
	"context"
	"fmt"
)

// Task is a named operation run by RunParallel.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts all tasks concurrently and waits for every one to
// finish. The first error encountered is returned, wrapped with the
// task's name; remaining tasks still run to completion.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(tasks))
	for _, task := range tasks {
		go func() {
			results <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstErr error
	for range len(tasks) {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", res.name, res.err)
		}
	}
	return firstErr
}
