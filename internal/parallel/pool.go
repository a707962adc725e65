// Package parallel provides a small bounded worker pool.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func()
)

// Pool runs submitted functions on a fixed number of goroutines. Do blocks
// while every worker is busy and the queue is full. Wait closes the pool and
// blocks until all submitted work has finished; Do must not be called after.
type Pool struct {
	wg   sync.WaitGroup
	Do   WorkerFunc
	Wait WaitFunc
}

// Start creates a pool with numWorkers goroutines, or GOMAXPROCS when
// numWorkers < 1. A single-worker pool runs work inline on the caller.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		pool.wg.Add(numWorkers)
		for range numWorkers {
			go func() {
				defer pool.wg.Done()
				for f := range workChan {
					f()
				}
			}()
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		closeOnce := sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() {
			closeOnce()
			pool.wg.Wait()
		}
	}

	return pool
}

// Map calls fn(i) for every i in [0, n) on a pool of numWorkers and returns
// when all calls have finished. Results are typically written to index i of a
// caller-owned slice, which keeps output in input order.
func Map(numWorkers, n int, fn func(i int)) {
	pool := Start(min(numWorkers, n))
	for i := 0; i < n; i++ {
		pool.Do(func() { fn(i) })
	}
	pool.Wait()
}
