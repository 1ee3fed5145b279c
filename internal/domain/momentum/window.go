// Package momentum keeps a player's recent performance samples.
package momentum

// Window is a fixed-capacity FIFO of samples. Pushing onto a full window
// evicts the oldest sample.
type Window struct {
	buf  []float64
	head int // index of the oldest sample
	n    int
}

// NewWindow returns an empty window holding at most capacity samples.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([]float64, capacity)}
}

// Cap returns the capacity.
func (w *Window) Cap() int { return len(w.buf) }

// Len returns the number of samples held.
func (w *Window) Len() int { return w.n }

// Push appends v, evicting the oldest sample when full.
func (w *Window) Push(v float64) {
	if w.n < len(w.buf) {
		w.buf[(w.head+w.n)%len(w.buf)] = v
		w.n++
		return
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// Values returns the samples oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

// DecayedMean returns the mean of the samples weighted by decay^age, where
// the newest sample has age 0. ok is false when the window is empty.
func (w *Window) DecayedMean(decay float64) (mean float64, ok bool) {
	if w.n == 0 {
		return 0, false
	}
	weight, sum, total := 1.0, 0.0, 0.0
	for i := w.n - 1; i >= 0; i-- {
		sum += w.buf[(w.head+i)%len(w.buf)] * weight
		total += weight
		weight *= decay
	}
	return sum / total, true
}

// Clone returns an independent copy.
func (w *Window) Clone() *Window {
	if w == nil {
		return nil
	}
	c := &Window{buf: make([]float64, len(w.buf)), head: w.head, n: w.n}
	copy(c.buf, w.buf)
	return c
}
