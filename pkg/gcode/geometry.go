// Bounding-box accumulation for material-depositing motion
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import "math"

// Mode selects how axis words in a move are applied to the current
// position.
type Mode int

const (
	// Absolute mode (G90): axis values replace the coordinate.
	Absolute Mode = iota
	// Relative mode (G91): axis values add to the coordinate.
	Relative
)

// Move is one completed linear move (G0/G1) with the axis words it
// carried. Axes not present in the command leave the corresponding Has
// flag false.
type Move struct {
	HasX, HasY, HasZ, HasE bool
	X, Y, Z, E             float64
}

// Extrudes reports whether the move deposits material.
func (m Move) Extrudes() bool { return m.HasE && m.E > 0 }

// Box is an axis-aligned bounding box. A fresh Box is empty: mins at
// +Inf, maxes at -Inf. Callers must check Empty before interpreting the
// values; an empty box means "no geometry", not a zero-size box.
type Box struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

func newBox() Box {
	inf := math.Inf(1)
	return Box{MinX: inf, MinY: inf, MinZ: inf, MaxX: -inf, MaxY: -inf, MaxZ: -inf}
}

// Empty reports whether no point has been folded into the box.
func (b Box) Empty() bool { return b.MinX > b.MaxX }

func (b *Box) foldX(v float64) {
	if v < b.MinX {
		b.MinX = v
	}
	if v > b.MaxX {
		b.MaxX = v
	}
}

func (b *Box) foldY(v float64) {
	if v < b.MinY {
		b.MinY = v
	}
	if v > b.MaxY {
		b.MaxY = v
	}
}

func (b *Box) foldZ(v float64) {
	if v < b.MinZ {
		b.MinZ = v
	}
	if v > b.MaxZ {
		b.MaxZ = v
	}
}

// Tracker accumulates the bounding box of extruding motion across one
// scan. Coordinates start unset and the mode starts absolute, like a
// freshly reset printer. All state is scoped to a single conversion.
type Tracker struct {
	mode             Mode
	hasX, hasY, hasZ bool
	x, y, z          float64

	// extruding holds whether the previous move deposited material.
	extruding bool

	box      Box
	boxReset bool
}

// NewTracker returns a Tracker with an empty bounding box.
func NewTracker() *Tracker {
	return &Tracker{box: newBox()}
}

// SetMode switches between absolute and relative positioning. Mode
// commands perform no geometry update.
func (t *Tracker) SetMode(m Mode) { t.mode = m }

// Apply folds one completed linear move into the tracker state. When an
// extruding move follows a non-extruding one, the pre-move position is
// folded in first so the approach point of the new extrusion run is
// covered. The post-move position is folded per axis actually present
// in the command, and only for extruding moves.
func (t *Tracker) Apply(m Move) {
	extrudes := m.Extrudes()
	if extrudes && !t.extruding {
		if t.hasX {
			t.box.foldX(t.x)
		}
		if t.hasY {
			t.box.foldY(t.y)
		}
		if t.hasZ {
			t.box.foldZ(t.z)
		}
	}
	if m.HasX {
		if t.mode == Relative {
			t.x += m.X
		} else {
			t.x = m.X
		}
		t.hasX = true
	}
	if m.HasY {
		if t.mode == Relative {
			t.y += m.Y
		} else {
			t.y = m.Y
		}
		t.hasY = true
	}
	if m.HasZ {
		if t.mode == Relative {
			t.z += m.Z
		} else {
			t.z = m.Z
		}
		t.hasZ = true
	}
	if extrudes {
		if m.HasX {
			t.box.foldX(t.x)
		}
		if m.HasY {
			t.box.foldY(t.y)
		}
		if m.HasZ {
			t.box.foldZ(t.z)
		}
	}
	t.extruding = extrudes
}

// LayerChange discards the box accumulated so far, dropping priming and
// skirt motion emitted before the first layer marker. Only the first
// marker has this effect.
func (t *Tracker) LayerChange() {
	if t.boxReset {
		return
	}
	t.box = newBox()
	t.boxReset = true
}

// Finish applies the first-layer-height correction and returns the
// final box. The header reports min_z relative to the nominal z origin,
// so the first layer's height is subtracted when the box spans real
// height.
func (t *Tracker) Finish(firstLayerHeight float64) Box {
	if t.box.MinZ < t.box.MaxZ {
		t.box.MinZ -= firstLayerHeight
	}
	return t.box
}
