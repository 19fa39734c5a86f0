package series

// Cursor hands out chart positions advancing by a fixed step. Positions are
// computed from a slot counter so they never drift.
type Cursor struct {
	step float64
	slot int
}

// NewCursor creates a cursor starting at position 0.
func NewCursor(step float64) *Cursor {
	return &Cursor{step: step}
}

// Next returns the position of the next slot and advances the cursor.
func (c *Cursor) Next() float64 {
	x := float64(c.slot) * c.step
	c.slot++
	return x
}

// Step returns the distance between two positions.
func (c *Cursor) Step() float64 {
	return c.step
}

// Window is the visible range of the position axis.
type Window struct {
	Low  float64
	High float64
}

// NewWindow creates a window starting at 0 with the given width.
func NewWindow(width float64) Window {
	return Window{Low: 0, High: width}
}

// Advance moves both bounds by delta.
func (w *Window) Advance(delta float64) {
	w.Low += delta
	w.High += delta
}

// Width returns High - Low.
func (w Window) Width() float64 {
	return w.High - w.Low
}

// Mid returns the center of the window.
func (w Window) Mid() float64 {
	return (w.Low + w.High) / 2
}

// Bounds is the visible value range of the chart.
type Bounds struct {
	Low  float64
	High float64
}

// Clamp limits v to the bounds.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Low {
		return b.Low
	}
	if v > b.High {
		return b.High
	}
	return v
}
