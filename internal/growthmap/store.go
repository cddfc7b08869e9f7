package growthmap

import (
	"sync"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
)

// BucketSnapshot is the last successfully loaded bucket set plus the filter
// it was loaded for.
type BucketSnapshot struct {
	Buckets         []insight.DayBucket
	TimeframeMonths int
	Division        string
	LoadedAt        time.Time
}

// EventBucketStore keeps the most recent good bucket load in memory. Loads
// carry a generation token handed out before the fetch starts, so a slow
// fetch that finishes after a newer one cannot clobber the fresher data.
type EventBucketStore struct {
	mu        sync.Mutex
	issued    uint64
	committed uint64
	snapshot  *BucketSnapshot
	now       func() time.Time
}

func NewEventBucketStore() *EventBucketStore {
	return &EventBucketStore{now: time.Now}
}

// Begin reserves the next generation token. Call it before starting a fetch.
func (s *EventBucketStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit installs the buckets for the given token. It reports false and
// leaves the current snapshot intact when a newer load already committed.
func (s *EventBucketStore) Commit(token uint64, timeframeMonths int, division string, buckets []insight.DayBucket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token <= s.committed {
		return false
	}
	s.committed = token
	s.snapshot = &BucketSnapshot{
		Buckets:         buckets,
		TimeframeMonths: timeframeMonths,
		Division:        division,
		LoadedAt:        s.now(),
	}
	return true
}

// Snapshot returns the last committed load, or false when nothing has been
// loaded yet.
func (s *EventBucketStore) Snapshot() (BucketSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return BucketSnapshot{}, false
	}
	return *s.snapshot, true
}
