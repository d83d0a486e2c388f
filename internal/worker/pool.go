// Package worker provides a worker pool for running tutor scripts in parallel.
package worker

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
)

// WorkItem represents a script to be run.
type WorkItem struct {
	Name  string // Script name, for reports and error locations
	Data  []byte // Script contents
	Index int    // Position in the input order
}

// ProcessResult represents the result of running one script.
type ProcessResult struct {
	Name    string
	Index   int
	Output  []byte      // Rendered session output
	Summary interface{} // Opaque per-script counts; typed by consumer
	Skipped bool        // The pool was stopped before the item ran
	Error   error       // Processing error; nil for items skipped by Stop
}

// ProcessFunc is the function signature for processing a work item.
type ProcessFunc func(ctx context.Context, item WorkItem) ProcessResult

// Pool manages a pool of workers running scripts in parallel.
type Pool struct {
	numWorkers  int
	bufferSize  int
	workChan    chan WorkItem
	resultChan  chan ProcessResult
	processFunc ProcessFunc
	ctx         context.Context
	cancel      context.CancelFunc
	stopWhen    func(ProcessResult) bool
	wg          sync.WaitGroup
	stopFlag    int32 // Atomic flag for early termination
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// WithContext sets the parent context passed to every ProcessFunc call.
func WithContext(ctx context.Context) PoolOption {
	return func(p *Pool) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

// WithStopWhen stops the pool after the first result for which stop
// returns true. Items not yet started are reported as skipped.
func WithStopWhen(stop func(ProcessResult) bool) PoolOption {
	return func(p *Pool) {
		p.stopWhen = stop
	}
}

// NewPool creates a new worker pool using functional options.
// processFunc is required. Default: 1 worker, buffer size of 10,
// background context.
func NewPool(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	// Create channels after options are applied
	p.ctx, p.cancel = context.WithCancel(p.ctx)
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker processes items from the work channel until it is closed.
// Items taken after Stop are reported as skipped. They carry the context
// error only when the parent context ended the run.
func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.IsStopped() {
			skipped := ProcessResult{Name: item.Name, Index: item.Index, Skipped: true}
			if atomic.LoadInt32(&p.stopFlag) == 0 {
				skipped.Error = p.ctx.Err()
			}
			p.resultChan <- skipped
			continue
		}
		result := p.processFunc(p.ctx, item)
		if p.stopWhen != nil && p.stopWhen(result) {
			p.Stop()
		}
		p.resultChan <- result
	}
}

// Submit submits a work item for processing.
// This may block if the work channel buffer is full.
func (p *Pool) Submit(item WorkItem) {
	p.workChan <- item
}

// Stop cancels the pool context and stops workers from starting new items.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
	p.cancel()
}

// IsStopped returns true if the pool has been stopped or its parent
// context is done.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0 || p.ctx.Err() != nil
}

// Close closes the work channel and waits for all workers to finish.
// After calling Close, the result channel will be closed when all workers are done.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
	p.cancel()
}

// Results returns the result channel for reading processed results.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Run starts the pool, feeds it every item, and returns the results in
// input order.
func (p *Pool) Run(items []WorkItem) []ProcessResult {
	p.Start()
	go func() {
		for _, item := range items {
			p.Submit(item)
		}
		p.Close()
	}()
	return Ordered(p.Results())
}

// Ordered drains results and sorts them by Index.
func Ordered(results <-chan ProcessResult) []ProcessResult {
	var all []ProcessResult
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all
}
