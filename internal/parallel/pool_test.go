package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

// =============================================================================
// Split Tests
// =============================================================================

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []Range
	}{
		{"empty", 0, 4, nil},
		{"negative", -3, 4, nil},
		{"single chunk", 3, 4, []Range{{0, 3}}},
		{"exact", 8, 4, []Range{{0, 4}, {4, 8}}},
		{"remainder", 10, 4, []Range{{0, 4}, {4, 8}, {8, 10}}},
		{"zero size", 5, 0, []Range{{0, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.n, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("Split(%d, %d) = %v, want %v", tt.n, tt.size, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Split(%d, %d)[%d] = %v, want %v", tt.n, tt.size, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitCoversEveryIndexOnce(t *testing.T) {
	const n = 1000
	for _, size := range []int{1, 7, 64, 999, 1000, 5000} {
		seen := make([]int, n)
		for _, r := range Split(n, size) {
			if r.Len() > size {
				t.Errorf("size %d: range %v too long", size, r)
			}
			for i := r.Lo; i < r.Hi; i++ {
				seen[i]++
			}
		}
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("size %d: index %d covered %d times", size, i, c)
			}
		}
	}
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestPool_Create(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewPool(n)
		if want := runtime.GOMAXPROCS(0); pool.Workers() != want {
			t.Errorf("NewPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, pool.Workers(), want)
		}
		pool.Close()
	}
}

func TestPool_Run(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 10000
	out := make([]int, n)
	pool.Run(Split(n, 37), func(r Range) {
		for i := r.Lo; i < r.Hi; i++ {
			out[i] = i * 2
		}
	})
	for i, v := range out {
		if v != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestPool_RunMoreRangesThanQueue(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	var calls atomic.Int64
	pool.Run(Split(500, 1), func(Range) {
		calls.Add(1)
	})
	if got := calls.Load(); got != 500 {
		t.Errorf("calls = %d, want 500", got)
	}
}

func TestPool_RunEmpty(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	called := false
	pool.Run(nil, func(Range) { called = true })
	if called {
		t.Error("fn called for empty range list")
	}
}

func TestPool_RunAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()

	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
	var calls int
	pool.Run(Split(10, 3), func(Range) { calls++ })
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (inline)", calls)
	}
}

func TestPool_CloseTwice(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()
}

func TestPool_ConcurrentRun(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	var total atomic.Int64
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Run(Split(1000, 10), func(r Range) {
				total.Add(int64(r.Len()))
			})
		}()
	}
	wg.Wait()
	if got := total.Load(); got != 8000 {
		t.Errorf("total = %d, want 8000", got)
	}
}

func TestPool_CloseDuringRun(t *testing.T) {
	pool := NewPool(4)

	var wg sync.WaitGroup
	var total atomic.Int64
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Run(Split(2000, 5), func(r Range) {
				total.Add(int64(r.Len()))
			})
		}()
	}
	pool.Close()
	wg.Wait()

	if got := total.Load(); got != 8000 {
		t.Errorf("total = %d, want 8000", got)
	}
}

func BenchmarkPool_Run(b *testing.B) {
	pool := NewPool(0)
	defer pool.Close()
	ranges := Split(1<<16, 1024)

	b.ReportAllocs()
	for b.Loop() {
		pool.Run(ranges, func(r Range) {
			_ = r.Len()
		})
	}
}
