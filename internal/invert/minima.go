package invert

import (
	"sort"

	"github.com/xaliphostes/stress/internal/geom"
)

// Candidate is one retained point of the lattice sweep: a rotation axis in
// spherical coordinates, a rotation magnitude, a stress ratio and the
// misfit they produced.
type Candidate struct {
	Axis        geom.Spherical
	RotAngle    float64
	StressRatio float64
	Misfit      float64
}

// LocalMinima is a fixed-capacity list of the lowest-misfit candidates
// seen so far, always ascending by misfit. Inserting past capacity evicts
// the worst entry. Equal misfits keep first-inserted order, which pins the
// sweep's axis-major tie-break.
type LocalMinima struct {
	capacity int
	items    []Candidate
}

// NewLocalMinima builds an empty list. Capacities below 1 are raised to 1.
func NewLocalMinima(capacity int) *LocalMinima {
	if capacity < 1 {
		capacity = 1
	}
	return &LocalMinima{capacity: capacity, items: make([]Candidate, 0, capacity)}
}

// Insert places c in misfit order, evicting the current worst entry when
// the list is full. It reports whether c was retained.
func (l *LocalMinima) Insert(c Candidate) bool {
	i := sort.Search(len(l.items), func(i int) bool { return l.items[i].Misfit > c.Misfit })
	if i >= l.capacity {
		return false
	}
	if len(l.items) < l.capacity {
		l.items = append(l.items, Candidate{})
	}
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = c
	return true
}

// Merge inserts every candidate of other, respecting capacity and order.
// Merging partial per-worker lists in worker order reproduces the serial
// sweep's tie-break.
func (l *LocalMinima) Merge(other *LocalMinima) {
	for _, c := range other.items {
		l.Insert(c)
	}
}

// Len returns the number of retained candidates.
func (l *LocalMinima) Len() int { return len(l.items) }

// Cap returns the configured capacity.
func (l *LocalMinima) Cap() int { return l.capacity }

// Best returns the lowest-misfit candidate, if any.
func (l *LocalMinima) Best() (Candidate, bool) {
	if len(l.items) == 0 {
		return Candidate{}, false
	}
	return l.items[0], true
}

// Candidates returns a copy of the retained candidates in ascending misfit
// order.
func (l *LocalMinima) Candidates() []Candidate {
	out := make([]Candidate, len(l.items))
	copy(out, l.items)
	return out
}
