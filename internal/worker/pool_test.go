package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lgbarn/chess-tutor-go/internal/testutil"
)

// echoProcessFunc returns a process function that echoes the script data.
func echoProcessFunc() ProcessFunc {
	return func(ctx context.Context, item WorkItem) ProcessResult {
		return ProcessResult{Name: item.Name, Index: item.Index, Output: item.Data}
	}
}

// countingProcessFunc returns a process function that increments a counter.
func countingProcessFunc(counter *int32) ProcessFunc {
	return func(ctx context.Context, item WorkItem) ProcessResult {
		atomic.AddInt32(counter, 1)
		return ProcessResult{Name: item.Name, Index: item.Index}
	}
}

// collectResults drains the result channel and returns the count.
func collectResults(pool *Pool) int {
	count := 0
	for range pool.Results() {
		count++
	}
	return count
}

// scriptItems builds n work items named script0.txt, script1.txt, ...
func scriptItems(n int) []WorkItem {
	items := make([]WorkItem, n)
	for i := range items {
		items[i] = WorkItem{
			Name:  fmt.Sprintf("script%d.txt", i),
			Data:  []byte(fmt.Sprintf("select e%d\n", i%8+1)),
			Index: i,
		}
	}
	return items
}

// TestPoolBasic tests basic worker pool functionality.
func TestPoolBasic(t *testing.T) {
	var processed int32
	pool := NewPool(countingProcessFunc(&processed), WithWorkers(4))
	pool.Start()

	const numItems = 10
	for _, item := range scriptItems(numItems) {
		pool.Submit(item)
	}

	go pool.Close()

	resultCount := collectResults(pool)
	if resultCount != numItems {
		t.Errorf("results = %d; want %d", resultCount, numItems)
	}
	if got := atomic.LoadInt32(&processed); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

// TestPoolRun tests that Run returns results in input order.
func TestPoolRun(t *testing.T) {
	variableDelayFunc := func(ctx context.Context, item WorkItem) ProcessResult {
		if item.Index%2 == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		return ProcessResult{Name: item.Name, Index: item.Index, Output: item.Data}
	}

	items := scriptItems(12)
	results := NewPool(variableDelayFunc, WithWorkers(4)).Run(items)

	if len(results) != len(items) {
		t.Fatalf("results = %d; want %d", len(results), len(items))
	}
	for i, r := range results {
		testutil.AssertEqual(t, r.Index, i)
		testutil.AssertEqual(t, r.Name, items[i].Name)
		testutil.AssertEqual(t, string(r.Output), string(items[i].Data))
	}
}

// TestPoolRun_Empty tests that running no items returns no results.
func TestPoolRun_Empty(t *testing.T) {
	results := NewPool(echoProcessFunc()).Run(nil)
	if len(results) != 0 {
		t.Errorf("results = %d; want 0", len(results))
	}
}

// TestPoolEarlyStop tests early termination with Stop().
func TestPoolEarlyStop(t *testing.T) {
	var processedCount int32

	slowProcessFunc := func(ctx context.Context, item WorkItem) ProcessResult {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&processedCount, 1)
		return ProcessResult{Index: item.Index}
	}

	pool := NewPool(slowProcessFunc, WithWorkers(2), WithBufferSize(100))
	pool.Start()

	const numItems = 50
	for _, item := range scriptItems(numItems) {
		pool.Submit(item)
	}

	time.Sleep(30 * time.Millisecond)
	pool.Stop()

	go pool.Close()

	skipped := 0
	for r := range pool.Results() {
		if r.Skipped {
			skipped++
			if r.Error != nil {
				t.Errorf("skipped result error = %v; want nil after Stop", r.Error)
			}
		}
	}

	// Should have processed fewer than total due to early stop
	processed := atomic.LoadInt32(&processedCount)
	if processed >= numItems {
		t.Logf("early stop may not have prevented all processing: %d processed", processed)
	}
	if skipped+int(processed) != numItems {
		t.Errorf("skipped %d + processed %d; want %d", skipped, processed, numItems)
	}
}

// TestPoolParentContext tests that a cancelled parent context stops the pool.
func TestPoolParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var processed int32
	results := NewPool(countingProcessFunc(&processed), WithContext(ctx)).Run(scriptItems(3))

	testutil.AssertEqual(t, len(results), 3)
	for _, r := range results {
		testutil.AssertTrue(t, r.Skipped, "result %d should be skipped", r.Index)
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("skipped result error = %v; want context.Canceled", r.Error)
		}
	}
	testutil.AssertEqual(t, atomic.LoadInt32(&processed), int32(0))
}

// TestPoolStopWhen tests stopping after the first matching result.
func TestPoolStopWhen(t *testing.T) {
	var processed int32
	pool := NewPool(countingProcessFunc(&processed),
		WithStopWhen(func(r ProcessResult) bool { return r.Index == 1 }),
		WithBufferSize(10),
	)

	results := pool.Run(scriptItems(5))

	testutil.AssertEqual(t, len(results), 5)
	testutil.AssertEqual(t, atomic.LoadInt32(&processed), int32(2))
	for _, r := range results {
		testutil.AssertEqual(t, r.Skipped, r.Index > 1, "result %d skipped", r.Index)
		testutil.AssertNoError(t, r.Error)
	}
	testutil.AssertTrue(t, pool.IsStopped())
}

// TestPoolContextPassed tests that process functions see the pool context.
func TestPoolContextPassed(t *testing.T) {
	pool := NewPool(func(ctx context.Context, item WorkItem) ProcessResult {
		return ProcessResult{Index: item.Index, Error: ctx.Err()}
	})
	for _, r := range pool.Run(scriptItems(2)) {
		testutil.AssertNoError(t, r.Error)
	}
}

// TestPoolIsStopped tests the IsStopped method.
func TestPoolIsStopped(t *testing.T) {
	pool := NewPool(echoProcessFunc(), WithWorkers(2))
	pool.Start()

	if pool.IsStopped() {
		t.Error("pool should not be stopped initially")
	}

	pool.Stop()

	if !pool.IsStopped() {
		t.Error("pool should be stopped after Stop()")
	}

	pool.Close()
}

// TestPoolNoRace is designed to be run with -race flag.
func TestPoolNoRace(t *testing.T) {
	var counter int32
	pool := NewPool(countingProcessFunc(&counter), WithWorkers(8), WithBufferSize(50))
	pool.Start()

	const numItems = 100
	go func() {
		for _, item := range scriptItems(numItems) {
			pool.Submit(item)
		}
		pool.Close()
	}()

	collectResults(pool)

	if got := atomic.LoadInt32(&counter); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

// TestOrdered tests sorting of out-of-order results.
func TestOrdered(t *testing.T) {
	ch := make(chan ProcessResult, 3)
	ch <- ProcessResult{Index: 2}
	ch <- ProcessResult{Index: 0}
	ch <- ProcessResult{Index: 1}
	close(ch)

	var got []int
	for _, r := range Ordered(ch) {
		got = append(got, r.Index)
	}
	testutil.AssertEqual(t, got, []int{0, 1, 2})
}

// TestNewPool tests the functional options constructor.
func TestNewPool(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		pool := NewPool(echoProcessFunc())
		if pool.NumWorkers() != 1 {
			t.Errorf("default workers = %d; want 1", pool.NumWorkers())
		}
		if pool.bufferSize != 10 {
			t.Errorf("default bufferSize = %d; want 10", pool.bufferSize)
		}
	})

	tests := []struct {
		name        string
		opts        []PoolOption
		wantWorkers int
		wantBuffer  int
	}{
		{"with workers", []PoolOption{WithWorkers(4)}, 4, 10},
		{"with buffer size", []PoolOption{WithBufferSize(50)}, 1, 50},
		{"with multiple options", []PoolOption{WithWorkers(8), WithBufferSize(100)}, 8, 100},
		{"invalid workers ignored", []PoolOption{WithWorkers(0)}, 1, 10},
		{"negative workers ignored", []PoolOption{WithWorkers(-1)}, 1, 10},
		{"invalid buffer size ignored", []PoolOption{WithBufferSize(-5)}, 1, 10},
		{"nil context ignored", []PoolOption{WithContext(nil)}, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(echoProcessFunc(), tt.opts...)
			if got := pool.NumWorkers(); got != tt.wantWorkers {
				t.Errorf("NumWorkers() = %d; want %d", got, tt.wantWorkers)
			}
			if pool.bufferSize != tt.wantBuffer {
				t.Errorf("bufferSize = %d; want %d", pool.bufferSize, tt.wantBuffer)
			}
		})
	}
}
