package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			val, err, _ := flight.Do("match-NA1_123", func() (any, error) {
				executions.Add(1)
				<-release
				return "payload", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[idx] = val
		}(i)
	}

	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected a single execution, got %d", got)
	}
	for idx, val := range results {
		if val != "payload" {
			t.Fatalf("caller %d got %v, want shared payload", idx, val)
		}
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32

	for _, key := range []string{"a", "b", "c"} {
		if _, err, shared := flight.Do(key, func() (any, error) {
			executions.Add(1)
			return nil, nil
		}); err != nil || shared {
			t.Fatalf("key %q: err=%v shared=%v", key, err, shared)
		}
	}

	if got := executions.Load(); got != 3 {
		t.Fatalf("expected three executions, got %d", got)
	}
}
