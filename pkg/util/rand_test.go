package util

import (
	"sync"
	"testing"
)

func TestLockedRandSeededSequence(t *testing.T) {
	a := NewLockedRand(42)
	b := NewLockedRand(42)
	for i := 0; i < 100; i++ {
		if av, bv := a.Int63(), b.Int63(); av != bv {
			t.Fatalf("draw %d diverged: %d vs %d", i, av, bv)
		}
	}
}

func TestLockedRandConcurrentDraws(t *testing.T) {
	rng := NewLockedRand(1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if v := rng.Float64(); v < 0 || v >= 1 {
					t.Errorf("Float64 out of range: %v", v)
					return
				}
				rng.Intn(256)
			}
		}()
	}
	wg.Wait()
}
