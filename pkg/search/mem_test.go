//go:build test

package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/bastiangx/wordscape/pkg/dictionary"
)

var memQueries = [][2]string{
	{"tca", "..."},
	{"tcak", "...."},
	{"castoa", "c..."},
	{"attic", "a...."},
	{"eilnst", "s....."},
	{"aeprst", "......"},
}

func memIndex() *dictionary.Index {
	idx := dictionary.NewIndex()
	letters := "aceilnoprst"
	for i := 0; i < 20000; i++ {
		n := 3 + i%5
		b := make([]byte, n)
		for j := range b {
			b[j] = letters[(i*7+j*13)%len(letters)]
		}
		idx.Add(string(b), i%97)
	}
	return idx
}

func TestMemoryLeakBasic(t *testing.T) {
	for _, iterations := range []int{100, 500, 1000} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			runBasicMemoryTest(t, iterations)
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 400},
		{workers: 4, iterationsPerWorker: 100},
		{workers: 8, iterationsPerWorker: 50},
	}
	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterationsPerWorker), func(t *testing.T) {
			runConcurrentMemoryTest(t, cfg.workers, cfg.iterationsPerWorker)
		})
	}
}

func runBasicMemoryTest(t *testing.T, iterations int) {
	e := NewEngine(memIndex(), WithCache(64), WithMaxResults(20))
	ctx := context.Background()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	for i := 0; i < iterations; i++ {
		for _, q := range memQueries {
			if _, err := e.Find(ctx, q[0], q[1]); err != nil {
				t.Fatalf("find %v: %v", q, err)
			}
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)

	memDelta := int64(final.Alloc) - int64(baseline.Alloc)
	totalOps := iterations * len(memQueries)
	memPerOp := float64(memDelta) / float64(totalOps)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentMemoryTest(t *testing.T, workers, iterationsPerWorker int) {
	e := NewEngine(memIndex(), WithCache(64), WithMaxResults(20))
	ctx := context.Background()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < iterationsPerWorker; i++ {
				q := memQueries[(worker+i)%len(memQueries)]
				if _, err := e.Find(ctx, q[0], q[1]); err != nil {
					t.Errorf("worker %d: %v", worker, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines

	t.Logf("workers=%d mem_delta=%d bytes goroutine_delta=%d",
		workers, int64(final.Alloc)-int64(baseline.Alloc), goroutineDelta)

	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
