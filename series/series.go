package series

// Sample is a single point of the chart. X is a synthetic position on the
// chart axis, Y is the latency in millis (0 for a failed probe).
type Sample struct {
	X float64
	Y float64
}

// Sliding is a fixed capacity series of samples. Once full, every new sample
// evicts the oldest one.
type Sliding struct {
	capacity int
	samples  []Sample
}

// New creates an empty series with the given capacity.
func New(capacity int) *Sliding {
	if capacity < 1 {
		capacity = 1
	}

	return &Sliding{
		capacity: capacity,
		samples:  make([]Sample, 0, capacity),
	}
}

// NewSeeded creates a series pre-filled with count zero value samples taken
// from the cursor, so a chart has something to show before the first probe.
func NewSeeded(capacity, count int, cursor *Cursor) *Sliding {
	s := New(capacity)
	for i := 0; i < count; i++ {
		s.Append(Sample{X: cursor.Next()})
	}

	return s
}

// Append adds a sample, removing the oldest one first if the series is full.
func (s *Sliding) Append(sample Sample) {
	if len(s.samples) == s.capacity {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:len(s.samples)-1]
	}

	s.samples = append(s.samples, sample)
}

// Extend appends all samples in order.
func (s *Sliding) Extend(samples ...Sample) {
	for _, sample := range samples {
		s.Append(sample)
	}
}

// Len returns the number of samples currently held.
func (s *Sliding) Len() int {
	return len(s.samples)
}

// Cap returns the capacity given on construction.
func (s *Sliding) Cap() int {
	return s.capacity
}

// Samples returns a copy of the samples, oldest first.
func (s *Sliding) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}
