package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"lpscout/internal/models"
)

func mkPools(n int, tag string) []models.Pool {
	out := make([]models.Pool, n)
	for i := range out {
		out[i] = models.Pool{Name: fmt.Sprintf("%s-%d", tag, i), Address: tag}
	}
	return out
}

func TestStore_StartsEmpty(t *testing.T) {
	s := New()
	snap := s.Load()
	if !snap.Empty() || snap.UpdatedAt != nil {
		t.Fatalf("snap=%+v want empty, never updated", snap)
	}
}

func TestStore_ReplaceCopiesInput(t *testing.T) {
	s := New()
	in := mkPools(3, "a")
	now := time.Now()
	s.Replace(in, now)
	in[0].Name = "mutated"

	snap := s.Load()
	if snap.Pools[0].Name != "a-0" {
		t.Fatalf("published snapshot aliased caller slice: %q", snap.Pools[0].Name)
	}
	if snap.UpdatedAt == nil || !snap.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt=%v want=%v", snap.UpdatedAt, now)
	}
}

func TestStore_ClearKeepsLastUpdate(t *testing.T) {
	s := New()
	now := time.Now()
	s.Replace(mkPools(2, "a"), now)
	snap := s.Clear()
	if !snap.Empty() {
		t.Fatalf("pools=%d want=0", len(snap.Pools))
	}
	if snap.UpdatedAt == nil || !snap.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt=%v want=%v", snap.UpdatedAt, now)
	}
}

// Readers racing a writer must only ever observe complete generations.
func TestStore_ReplaceIsAtomic(t *testing.T) {
	s := New()
	s.Replace(mkPools(10, "a"), time.Now())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan string, 1)
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := s.Load()
				if len(snap.Pools) != 10 && len(snap.Pools) != 7 {
					select {
					case errs <- fmt.Sprintf("observed len=%d", len(snap.Pools)):
					default:
					}
					return
				}
				tag := snap.Pools[0].Address
				for _, p := range snap.Pools {
					if p.Address != tag {
						select {
						case errs <- "observed mixed generation":
						default:
						}
						return
					}
				}
			}
		}()
	}
	for i := 0; i < 2000; i++ {
		if i%2 == 0 {
			s.Replace(mkPools(7, "b"), time.Now())
		} else {
			s.Replace(mkPools(10, "a"), time.Now())
		}
	}
	close(stop)
	wg.Wait()
	select {
	case msg := <-errs:
		t.Fatalf("%s", msg)
	default:
	}
}
