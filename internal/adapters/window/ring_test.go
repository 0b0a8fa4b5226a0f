package window

import (
	"testing"

	"github.com/ghalamif/EcoGuard/internal/domain"
)

func TestRingPushSnapshotOrder(t *testing.T) {
	r := NewRing(4)

	for seq := uint64(1); seq <= 3; seq++ {
		if evicted := r.Push(domain.Sample{Seq: seq}); evicted {
			t.Fatalf("unexpected eviction at seq %d", seq)
		}
	}

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(snap))
	}
	for i, s := range snap {
		if s.Seq != uint64(i+1) {
			t.Fatalf("snapshot[%d]: expected seq %d, got %d", i, i+1, s.Seq)
		}
	}
}

func TestRingEvictsOldestWhenFull(t *testing.T) {
	r := NewRing(15)

	for seq := uint64(1); seq <= 20; seq++ {
		r.Push(domain.Sample{Seq: seq})
	}

	if r.Len() != 15 {
		t.Fatalf("expected length 15, got %d", r.Len())
	}
	snap := r.Snapshot()
	if snap[0].Seq != 6 {
		t.Fatalf("expected oldest retained seq 6, got %d", snap[0].Seq)
	}
	if snap[len(snap)-1].Seq != 20 {
		t.Fatalf("expected newest seq 20, got %d", snap[len(snap)-1].Seq)
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].Seq != snap[i-1].Seq+1 {
			t.Fatalf("order broken at %d: %d after %d", i, snap[i].Seq, snap[i-1].Seq)
		}
	}
}

func TestRingLenNeverExceedsCapacity(t *testing.T) {
	const capacity = 5
	r := NewRing(capacity)

	for k := 0; k < 3*capacity; k++ {
		r.Push(domain.Sample{Seq: uint64(k + 1)})
		want := k + 1
		if want > capacity {
			want = capacity
		}
		if r.Len() != want {
			t.Fatalf("after %d pushes expected len %d, got %d", k+1, want, r.Len())
		}
	}
}

func TestRingLast(t *testing.T) {
	r := NewRing(2)
	if _, ok := r.Last(); ok {
		t.Fatalf("expected no last sample on empty ring")
	}

	r.Push(domain.Sample{Seq: 1})
	r.Push(domain.Sample{Seq: 2})
	r.Push(domain.Sample{Seq: 3})

	last, ok := r.Last()
	if !ok || last.Seq != 3 {
		t.Fatalf("expected last seq 3, got %+v ok=%v", last, ok)
	}
}

func TestRingSnapshotIsDetached(t *testing.T) {
	r := NewRing(2)
	r.Push(domain.Sample{Seq: 1, Values: map[string]float64{"input_so2": 120}})

	snap := r.Snapshot()
	snap[0].Values["input_so2"] = -1

	again := r.Snapshot()
	if again[0].Values["input_so2"] != 120 {
		t.Fatalf("snapshot mutation leaked into the ring: %v", again[0].Values)
	}
}

func TestRingMinimumCapacity(t *testing.T) {
	r := NewRing(0)
	if r.Cap() != 1 {
		t.Fatalf("expected capacity clamp to 1, got %d", r.Cap())
	}
}
