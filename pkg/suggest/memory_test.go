//go:build test

package suggest

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/bastiangx/typeahead/pkg/spell"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var typingPatterns = [][]string{
	{"i", "i ", "i l", "i lo", "i lov", "i love", "i love "},
	{"i love p", "i love pi", "i love piz", "i love pizz", "i love pizza"},
	{"h", "he", "hel", "hell", "hello", "hello ", "hello w", "hello wo"},
	{"i lik", "i like ", "i like pa", "i like pasta"},
	{"helo", "helo wrld", "i lvoe p", "I Love "},
}

func memoryEngine(t *testing.T) *Engine {
	t.Helper()
	m := newModel(t)
	c := spell.New(spell.DefaultOptions())
	c.Seed(m.UnigramCounts())
	return NewEngine(m, c, DefaultWeights())
}

func heapAlloc() (int64, int) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return int64(m.Alloc), runtime.NumGoroutine()
}

func TestMemoryLeakBasic(t *testing.T) {
	for _, iterations := range []int{100, 500, 1000} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			engine := memoryEngine(t)
			baseMem, baseRoutines := heapAlloc()

			ops := 0
			for i := 0; i < iterations; i++ {
				for _, pattern := range typingPatterns {
					for _, text := range pattern {
						if _, err := engine.GetSuggestions(text, 10); err != nil {
							t.Fatalf("suggest %q: %v", text, err)
						}
						ops++
					}
				}
			}

			mem, routines := heapAlloc()
			memPerOp := float64(mem-baseMem) / float64(ops)
			t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
				iterations, ops, mem-baseMem, memPerOp, routines-baseRoutines)

			if memPerOp > 1000 {
				t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
			}
			if routines-baseRoutines > 2 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", routines-baseRoutines)
			}
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 1000},
		{workers: 4, iterationsPerWorker: 250},
		{workers: 8, iterationsPerWorker: 125},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterationsPerWorker), func(t *testing.T) {
			engine := memoryEngine(t)
			baseMem, baseRoutines := heapAlloc()

			var wg sync.WaitGroup
			var mu sync.Mutex
			ops := 0
			for w := 0; w < cfg.workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					n := 0
					for iter := 0; iter < cfg.iterationsPerWorker; iter++ {
						for _, pattern := range typingPatterns {
							for _, text := range pattern {
								_, _ = engine.GetSuggestions(text, 10)
								n++
							}
						}
					}
					mu.Lock()
					ops += n
					mu.Unlock()
				}()
			}
			wg.Wait()

			mem, routines := heapAlloc()
			memPerOp := float64(mem-baseMem) / float64(ops)
			t.Logf("workers=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
				cfg.workers, ops, mem-baseMem, memPerOp, routines-baseRoutines)

			if memPerOp > 1000 {
				t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
			}
			if routines-baseRoutines > 3 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", routines-baseRoutines)
			}
		})
	}
}
