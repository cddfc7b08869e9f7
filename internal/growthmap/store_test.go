package growthmap

import (
	"testing"

	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
)

func TestEventBucketStoreStaleCommitRejected(t *testing.T) {
	store := NewEventBucketStore()

	older := store.Begin()
	newer := store.Begin()

	if ok := store.Commit(newer, 6, "Dhaka", []insight.DayBucket{{Year: 2024, Month: 1, Day: 2}}); !ok {
		t.Fatalf("fresh commit should succeed")
	}
	if ok := store.Commit(older, 3, "Khulna", []insight.DayBucket{{Year: 2023, Month: 6, Day: 1}}); ok {
		t.Fatalf("stale commit should be rejected")
	}

	snap, ok := store.Snapshot()
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	if snap.Division != "Dhaka" || snap.TimeframeMonths != 6 {
		t.Fatalf("stale commit overwrote snapshot: %+v", snap)
	}
}

func TestEventBucketStoreFailedLoadKeepsSnapshot(t *testing.T) {
	store := NewEventBucketStore()

	token := store.Begin()
	store.Commit(token, 6, "", []insight.DayBucket{{Year: 2024, Month: 1, Day: 1, OrderCount: 7}})

	// a fetch that errors never commits; the token is simply abandoned
	_ = store.Begin()

	snap, ok := store.Snapshot()
	if !ok || len(snap.Buckets) != 1 || snap.Buckets[0].OrderCount != 7 {
		t.Fatalf("failed load disturbed the snapshot: %+v", snap)
	}
}

func TestEventBucketStoreEmptyUntilFirstCommit(t *testing.T) {
	store := NewEventBucketStore()
	if _, ok := store.Snapshot(); ok {
		t.Fatalf("expected no snapshot before first commit")
	}
}
