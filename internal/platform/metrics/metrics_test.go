package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestRecordBucketsStatuses(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 5*time.Millisecond)
	c.Record(429, 1*time.Millisecond)
	c.Record(500, 20*time.Millisecond)

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 4 {
		t.Fatalf("expected 4 requests, got %v", snap["requestsTotal"])
	}
	if snap["serverErrors"].(uint64) != 1 {
		t.Fatalf("expected 1 server error, got %v", snap["serverErrors"])
	}
	if snap["clientErrors"].(uint64) != 1 {
		t.Fatalf("expected 1 client error, got %v", snap["clientErrors"])
	}
	if snap["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 rate limited, got %v", snap["rateLimitedTotal"])
	}
	if snap["totalDurationMs"].(uint64) != 36 {
		t.Fatalf("expected 36ms total, got %v", snap["totalDurationMs"])
	}
}

func TestRecordConcurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(200, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot()["requestsTotal"].(uint64); got != 5000 {
		t.Fatalf("expected 5000 requests, got %d", got)
	}
}
