package workerpool

import "sync"

// Pool bounds the number of concurrently executing tasks. A single pool is
// constructed at startup and shared across every input file in a run, so the
// file-level and row-level fan-out together never exceed the configured
// width.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// New returns a pool that runs at most width tasks at once. Widths below one
// are clamped to one.
func New(width int) *Pool {
	if width < 1 {
		width = 1
	}
	return &Pool{sem: make(chan struct{}, width)}
}

// Width reports the maximum number of concurrent tasks.
func (p *Pool) Width() int {
	return cap(p.sem)
}

// Go schedules fn, blocking the caller until a worker slot frees up. Slots
// are held only while fn runs, so callers may schedule from multiple
// goroutines without deadlocking each other.
func (p *Pool) Go(fn func()) {
	p.sem <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		fn()
	}()
}

// Wait blocks until every task scheduled so far has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
