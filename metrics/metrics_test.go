package metrics

import (
	"sync"
	"testing"
)

func TestCounter(t *testing.T) {
	c := NewCounter("test_counter")
	c.Inc()
	c.Add(5)
	c.Add(-3) // ignored: counters are monotonic
	if got := c.Value(); got != 6 {
		t.Errorf("value = %d, want 6", got)
	}
	if c.Name() != "test_counter" {
		t.Errorf("name = %q", c.Name())
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge("test_gauge")
	g.Set(10)
	g.Inc()
	g.Dec()
	g.Dec()
	if got := g.Value(); got != 9 {
		t.Errorf("value = %d, want 9", got)
	}
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry()
	a := r.Counter("proposals")
	b := r.Counter("proposals")
	if a != b {
		t.Error("same name returned different counters")
	}

	r.Gauge("congestion").Set(4)
	snap := r.Snapshot()
	if snap["congestion"] != 4 {
		t.Errorf("snapshot congestion = %d, want 4", snap["congestion"])
	}
	if _, ok := snap["proposals"]; !ok {
		t.Error("snapshot missing counter")
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "congestion" || names[1] != "proposals" {
		t.Errorf("names = %v", names)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter("shared").Inc()
			}
		}()
	}
	wg.Wait()
	if got := r.Counter("shared").Value(); got != 800 {
		t.Errorf("value = %d, want 800", got)
	}
}
