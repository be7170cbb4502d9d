//go:build threads

package guard

import (
	"sync"
	"testing"
)

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Add(1)
				c.Add(-1)
			}
		}()
	}
	wg.Wait()
	if c.Load() != 0 {
		t.Fatalf("counter = %d after balanced updates", c.Load())
	}
}

func TestFlag_SingleWinner(t *testing.T) {
	var f Flag
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Set() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if winners != 1 {
		t.Fatalf("winners = %d, want 1", winners)
	}
}
