// Package history provides the bounded telemetry store: a fixed-capacity
// ring of timestamped samples with ordered retrieval and CSV export.
package history

// Sample is one telemetry record. Immutable once appended.
type Sample struct {
	Timestamp   uint32 // epoch seconds
	Temperature float64
	Pressure    float64
	FreeHeap    uint32
	RSSI        int
}

// DefaultCapacity is the ring size used when none is configured.
const DefaultCapacity = 100

// Store is a fixed-capacity FIFO of samples. Once full, each append
// overwrites the oldest entry. Allocated once, never resized or cleared.
// Not safe for concurrent use; caller must synchronize.
type Store struct {
	buf      []Sample
	capacity int
	head     int // next write position
	count    int
}

// NewStore creates a Store with the given capacity.
// A capacity below 1 falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		buf:      make([]Sample, capacity),
		capacity: capacity,
	}
}

// Append stores a sample, overwriting the oldest entry when full.
// O(1), never fails.
func (s *Store) Append(sample Sample) {
	s.buf[s.head] = sample
	s.head = (s.head + 1) % s.capacity
	if s.count < s.capacity {
		s.count++
	}
}

// Snapshot returns the stored samples oldest to newest. The slice is a copy;
// each call recomputes the view from the current head and count.
func (s *Store) Snapshot() []Sample {
	result := make([]Sample, s.count)
	// Oldest entry is at (head - count) mod capacity.
	start := (s.head - s.count + s.capacity) % s.capacity
	for i := 0; i < s.count; i++ {
		result[i] = s.buf[(start+i)%s.capacity]
	}
	return result
}

// Len returns the number of stored samples.
func (s *Store) Len() int {
	return s.count
}

// Cap returns the fixed capacity.
func (s *Store) Cap() int {
	return s.capacity
}
