package stats

import (
	"math"
	"sync"
)

// DefaultSize is the number of values averaged into one block.
const DefaultSize = 10

// Rolling collects raw values in blocks of a fixed size. A full block is
// collapsed into its average once the next value arrives.
type Rolling struct {
	size    int
	current []float64
	history []float64
	sync.RWMutex
}

// NewRolling creates an aggregator with the given block size.
func NewRolling(size int) *Rolling {
	if size < 1 {
		size = DefaultSize
	}

	return &Rolling{
		size:    size,
		current: make([]float64, 0, size),
	}
}

// Push adds a value to the current block, flushing the block first if it is full.
func (r *Rolling) Push(value float64) {
	r.Lock()
	defer r.Unlock()

	if len(r.current) >= r.size {
		r.flush()
	}
	r.current = append(r.current, value)
}

// flush needs to be locked externally!
func (r *Rolling) flush() {
	avg, _ := mean(r.current)
	r.history = append(r.history, avg)
	r.current = r.current[:0]
}

// Average returns the mean of the current block. ok is false if the block is empty.
func (r *Rolling) Average() (avg float64, ok bool) {
	r.RLock()
	defer r.RUnlock()

	return mean(r.current)
}

// LastBlockAverage returns the average of the most recently completed block.
// ok is false until the first block has been flushed.
func (r *Rolling) LastBlockAverage() (avg float64, ok bool) {
	r.RLock()
	defer r.RUnlock()

	if len(r.history) == 0 {
		return 0, false
	}
	return r.history[len(r.history)-1], true
}

// Len returns the number of values in the open block.
func (r *Rolling) Len() int {
	r.RLock()
	defer r.RUnlock()

	return len(r.current)
}

// Size returns the block size.
func (r *Rolling) Size() int {
	return r.size
}

// Compute aggregates the open block into a single data point. It returns nil
// if the block is empty.
func (r *Rolling) Compute() *Metrics {
	r.RLock()
	defer r.RUnlock()

	numTotal := len(r.current)
	if numTotal == 0 {
		return nil
	}

	var best, worst, total, sumSquares float64
	for i, v := range r.current {
		if i == 0 || v < best {
			best = v
		}
		if i == 0 || v > worst {
			worst = v
		}
		total += v
	}

	size := float64(numTotal)
	avg := total / size
	for _, v := range r.current {
		sumSquares += math.Pow(v-avg, 2)
	}

	m := &Metrics{
		Samples: numTotal,
		Blocks:  len(r.history),
		Best:    best,
		Worst:   worst,
		Mean:    avg,
		StdDev:  math.Sqrt(sumSquares / size),
	}
	if len(r.history) > 0 {
		m.LastBlock = r.history[len(r.history)-1]
	}

	return m
}

func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}
