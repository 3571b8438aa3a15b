package testutil

import (
	"sync"
	"testing"
	"time"
)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	c := NewDeterministicClock()
	if got := c.Now(); !got.Equal(Epoch) {
		t.Errorf("first Now() = %v, want %v", got, Epoch)
	}
	if got := c.Now(); !got.Equal(Epoch.Add(time.Second)) {
		t.Errorf("second Now() = %v, want %v", got, Epoch.Add(time.Second))
	}
}

func TestDeterministicClock_Reset(t *testing.T) {
	c := NewDeterministicClock()
	c.Now()
	c.Now()
	if c.Ticks() != 2 {
		t.Fatalf("Ticks() = %d, want 2", c.Ticks())
	}

	c.Reset()
	if got := c.Now(); !got.Equal(Epoch) {
		t.Errorf("Now() after Reset = %v, want %v", got, Epoch)
	}
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	c := NewDeterministicClock()
	const goroutines = 50

	var wg sync.WaitGroup
	seen := make(chan time.Time, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		if unique[ts] {
			t.Fatalf("duplicate timestamp %v", ts)
		}
		unique[ts] = true
	}
	if len(unique) != goroutines {
		t.Errorf("got %d unique timestamps, want %d", len(unique), goroutines)
	}
}
