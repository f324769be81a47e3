package calculator

import "math"

// RollingStats keeps a fixed-size trailing window of values and
// maintains a running sum and sum of squares, so mean and standard
// deviation cost O(1) per bar instead of a full-window rescan.
//
// A slot can also hold a "hole": a sample whose value is undefined
// (e.g. the spread of a zero-low bar). A hole occupies window space
// and evicts normally, but contributes nothing to the statistics and
// leaves them undefined for as long as it stays inside the window.
type RollingStats struct {
	capacity int
	values   []float64
	defined  []bool
	idx      int
	count    int
	holes    int
	sum      float64
	sumSq    float64
}

// NewRollingStats creates a window holding up to capacity samples.
func NewRollingStats(capacity int) *RollingStats {
	if capacity <= 0 {
		capacity = 1
	}
	return &RollingStats{
		capacity: capacity,
		values:   make([]float64, capacity),
		defined:  make([]bool, capacity),
	}
}

// Add pushes v into the window, evicting the oldest sample once full.
func (r *RollingStats) Add(v float64) {
	r.evict()
	r.values[r.idx] = v
	r.defined[r.idx] = true
	r.sum += v
	r.sumSq += v * v
	r.advance()
}

// AddHole pushes an undefined sample into the window.
func (r *RollingStats) AddHole() {
	r.evict()
	r.defined[r.idx] = false
	r.holes++
	r.advance()
}

func (r *RollingStats) evict() {
	if r.count < r.capacity {
		return
	}
	if r.defined[r.idx] {
		old := r.values[r.idx]
		r.sum -= old
		r.sumSq -= old * old
	} else {
		r.holes--
	}
}

func (r *RollingStats) advance() {
	if r.count < r.capacity {
		r.count++
	}
	r.idx = (r.idx + 1) % r.capacity
}

// Count returns the number of samples currently held, holes included.
func (r *RollingStats) Count() int {
	return r.count
}

// ready reports whether the window is full and hole-free, i.e. the
// statistics are defined.
func (r *RollingStats) ready() bool {
	return r.count == r.capacity && r.holes == 0
}

// Mean returns the window mean. ok is false while the window is still
// warming up or contains an undefined sample.
func (r *RollingStats) Mean() (mean float64, ok bool) {
	if !r.ready() {
		return 0, false
	}
	return r.sum / float64(r.capacity), true
}

// SampleStd returns the sample standard deviation of the window
// (denominator n-1). ok follows the same rules as Mean.
func (r *RollingStats) SampleStd() (std float64, ok bool) {
	if !r.ready() || r.capacity < 2 {
		return 0, false
	}
	n := float64(r.capacity)
	mean := r.sum / n
	variance := (r.sumSq - n*mean*mean) / (n - 1)
	// Cancellation on a constant window can leave a tiny residual of
	// either sign; a flat window must report exactly zero, or the
	// z-score of the next bar explodes instead of staying undefined.
	if variance <= 1e-10*mean*mean {
		variance = 0
	}
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance), true
}
