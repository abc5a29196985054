// Package stress models stress tracks and consequence slots, the two
// damage-absorption resources of a Qhauntz character.
package stress

import (
	"errors"
	"fmt"
	"strings"
)

// Category identifies a damage/stress category.
type Category int

const (
	// Endurance is the physical stress category.
	Endurance Category = iota
	// Resolve is the mental stress category.
	Resolve
	// Aether is the magical catch-all category. Its track only carries bonus boxes.
	Aether
)

// String returns a human-readable category label.
func (c Category) String() string {
	switch c {
	case Endurance:
		return "Endurance"
	case Resolve:
		return "Resolve"
	case Aether:
		return "Aether"
	default:
		return "unknown"
	}
}

// ParseCategory parses a case-insensitive category name.
//
// Postcondition: Returns a valid Category or a non-nil error.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "endurance":
		return Endurance, nil
	case "resolve":
		return Resolve, nil
	case "aether":
		return Aether, nil
	default:
		return 0, fmt.Errorf("stress: unknown category %q", s)
	}
}

// ErrInvalidCapacity is returned when a box capacity is not positive.
var ErrInvalidCapacity = errors.New("stress: box capacity must be > 0")

// Box is one absorption slot of a stress track.
type Box struct {
	Capacity int
	Filled   bool
}

// Track is an ordered list of box slots plus a recomputed set of bonus boxes.
//
// Boxes are identified by position, so two boxes with equal capacity are
// distinct. Temp holds bonus capacities owned by the bonus-track monitor and
// must not be edited by hand.
//
// It is not safe for concurrent use; the caller must serialise access.
type Track struct {
	Boxes []Box
	Temp  []int
}

// NewTrack creates a Track with one unfilled box per capacity, in order.
//
// Precondition: every capacity must be > 0.
// Postcondition: Returns a Track with len(Boxes) == len(capacities) and no filled boxes.
func NewTrack(capacities ...int) (*Track, error) {
	boxes := make([]Box, 0, len(capacities))
	for _, c := range capacities {
		if c <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, c)
		}
		boxes = append(boxes, Box{Capacity: c})
	}
	return &Track{Boxes: boxes}, nil
}

// Select returns the index of the box that would absorb a hit of damage
// shifts: the smallest-capacity unfilled box whose capacity is >= damage.
// Equal capacities resolve to the lowest index.
//
// Postcondition: Returns (i, true) with Boxes[i] unfilled and Boxes[i].Capacity >= damage,
// minimal among all such boxes; or (-1, false) when no box qualifies. Never mutates t.
func (t *Track) Select(damage int) (int, bool) {
	best := -1
	for i, b := range t.Boxes {
		if b.Filled || b.Capacity < damage {
			continue
		}
		if best == -1 || b.Capacity < t.Boxes[best].Capacity {
			best = i
		}
	}
	return best, best >= 0
}

// Fill marks box i as filled.
//
// Precondition: 0 <= i < len(Boxes).
func (t *Track) Fill(i int) {
	t.Boxes[i].Filled = true
}

// Clear marks box i as unfilled.
//
// Precondition: 0 <= i < len(Boxes).
func (t *Track) Clear(i int) {
	t.Boxes[i].Filled = false
}

// FilledCount returns the number of filled boxes.
func (t *Track) FilledCount() int {
	n := 0
	for _, b := range t.Boxes {
		if b.Filled {
			n++
		}
	}
	return n
}

// FilledCapacities returns the capacities of filled boxes in slot order.
func (t *Track) FilledCapacities() []int {
	var out []int
	for _, b := range t.Boxes {
		if b.Filled {
			out = append(out, b.Capacity)
		}
	}
	return out
}

// Capacities returns every box capacity in slot order.
func (t *Track) Capacities() []int {
	out := make([]int, len(t.Boxes))
	for i, b := range t.Boxes {
		out[i] = b.Capacity
	}
	return out
}

// SmallestFilled returns the index of the filled box with the smallest
// capacity, lowest index first on ties.
//
// Postcondition: Returns (-1, false) iff FilledCount() == 0.
func (t *Track) SmallestFilled() (int, bool) {
	best := -1
	for i, b := range t.Boxes {
		if !b.Filled {
			continue
		}
		if best == -1 || b.Capacity < t.Boxes[best].Capacity {
			best = i
		}
	}
	return best, best >= 0
}

// ClearTemp removes all bonus boxes.
func (t *Track) ClearTemp() {
	t.Temp = nil
}

// SetTemp replaces the bonus boxes with capacities.
func (t *Track) SetTemp(capacities ...int) {
	t.Temp = append([]int(nil), capacities...)
}

// String renders the track as "[1 (2) 3] +[1]", filled boxes in parentheses.
func (t *Track) String() string {
	parts := make([]string, len(t.Boxes))
	for i, b := range t.Boxes {
		if b.Filled {
			parts[i] = fmt.Sprintf("(%d)", b.Capacity)
		} else {
			parts[i] = fmt.Sprintf("%d", b.Capacity)
		}
	}
	s := "[" + strings.Join(parts, " ") + "]"
	if len(t.Temp) > 0 {
		s += fmt.Sprintf(" +%v", t.Temp)
	}
	return s
}
