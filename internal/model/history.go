package model

import "time"

const defaultHistoryCap = 60

// HealthPoint is a single timestamped assessment summary stored in the ring buffer.
type HealthPoint struct {
	Timestamp          time.Time
	HealthScore        float64
	MasterFaultIndex   float64
	RULHours           float64
	FailureProbability float64
}

// HealthHistory is a fixed-size ring buffer of HealthPoints.
// When the buffer is full, new pushes overwrite the oldest entry.
type HealthHistory struct {
	buf  []HealthPoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewHealthHistory creates a HealthHistory with the given capacity.
// If capacity <= 0, the defaultHistoryCap (60) is used.
func NewHealthHistory(capacity int) *HealthHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &HealthHistory{
		buf: make([]HealthPoint, capacity),
	}
}

// Push appends a new point to the history, overwriting the oldest if full.
func (h *HealthHistory) Push(p HealthPoint) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries in the history.
func (h *HealthHistory) Len() int {
	return h.size
}

// Clear resets the history to empty.
func (h *HealthHistory) Clear() {
	h.head = 0
	h.size = 0
}

// Latest returns the newest point, or false when the history is empty.
func (h *HealthHistory) Latest() (HealthPoint, bool) {
	if h.size == 0 {
		return HealthPoint{}, false
	}
	return h.buf[(h.head-1+len(h.buf))%len(h.buf)], true
}

// Values returns a slice of float64 for the named field in chronological order
// (oldest first). Valid field names: "healthScore", "mfi", "rul",
// "failureProbability".
func (h *HealthHistory) Values(field string) []float64 {
	out := make([]float64, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		p := h.buf[(start+i)%len(h.buf)]
		switch field {
		case "healthScore":
			out[i] = p.HealthScore
		case "mfi":
			out[i] = p.MasterFaultIndex
		case "rul":
			out[i] = p.RULHours
		case "failureProbability":
			out[i] = p.FailureProbability
		}
	}
	return out
}
