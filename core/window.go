package core

import "math"

// Window is a half-open time range [Start, End) used to scope a query.
type Window struct {
	Start int64 // inclusive
	End   int64 // exclusive
}

// MaxWindow covers every representable time.
var MaxWindow = Window{Start: math.MinInt64, End: math.MaxInt64}

// NewWindow creates a half-open window [start, end).
func NewWindow(start, end int64) Window {
	return Window{Start: start, End: end}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t int64) bool {
	return t >= w.Start && t < w.End
}

// IsEmpty reports whether the window covers no time at all.
// An empty window yields empty query results, never an error.
func (w Window) IsEmpty() bool {
	return w.Start >= w.End
}

// Clamp intersects w with inner. Nested windows narrow, never widen.
func (w Window) Clamp(inner Window) Window {
	out := w
	if inner.Start > out.Start {
		out.Start = inner.Start
	}
	if inner.End < out.End {
		out.End = inner.End
	}
	return out
}
