package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int64

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err, _ := g.Do("totals", func() (any, error) {
				executions.Add(1)
				close(started)
				<-release
				return int64(42), nil
			})
			if err != nil {
				t.Errorf("do: %v", err)
			}
			results[i] = v
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	for i, v := range results {
		if v != int64(42) {
			t.Fatalf("caller %d got %v", i, v)
		}
	}
}

func TestSingleFlight_SequentialCallsRunSeparately(t *testing.T) {
	var g SingleFlight
	var executions int

	for i := 0; i < 3; i++ {
		_, err, shared := g.Do("key", func() (any, error) {
			executions++
			return nil, nil
		})
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		if shared {
			t.Fatal("sequential call should not share a result")
		}
	}

	if executions != 3 {
		t.Fatalf("expected 3 executions, got %d", executions)
	}
}
