// Slicer comment metadata capture slots
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import (
	"bytes"

	"sm2pspp-go/pkg/token"
)

// Comment keys recognized in "key = value" slicer comments
// (PrusaSlicer naming). Matching is case-sensitive and exact except for
// the estimated-time key, which is a prefix match so a trailing
// qualifier like "(normal mode)" is tolerated.
const (
	keyFilamentUsed     = "filament used [mm]"
	keyLayerHeight      = "layer_height"
	keyFirstLayerHeight = "first_layer_height"
	keyEstimatedTime    = "estimated printing time"
	keyNozzleTemp       = "first_layer_temperature"
	keyPlateTemp        = "first_layer_bed_temperature"
	keyPrintSpeed       = "max_print_speed"
)

// Comment markers. The processed marker spans three words; the lexer
// compares the growing first-token view at every space, so multi-word
// markers match on the space that follows them.
const (
	markerProcessed   = "post-processed by sm2pspp"
	markerThumbBegin  = "thumbnail begin"
	markerThumbEnd    = "thumbnail end"
	markerLayerChange = "LAYER_CHANGE"
)

// Metadata holds the first-match-wins capture slots filled during the
// scan. All tokens view the buffer passed to the Lexer.
type Metadata struct {
	FilamentUsed     token.Token // millimeters
	LayerHeight      token.Token
	FirstLayerHeight token.Token
	EstimatedTime    token.Token // d/h/m/s duration
	NozzleTemp       token.Token // primary nozzle
	NozzleTemp2      token.Token // secondary nozzle (dual extruder)
	PlateTemp        token.Token
	PrintSpeed       token.Token // mm/s

	// Thumbnail is the raw region between the begin marker line and the
	// end marker line. It still contains comment prefixes and newlines;
	// the header synthesizer filters it down to base64 bytes.
	Thumbnail token.Token

	// LegacyThumb is the full original thumbnail block, marker lines
	// included, captured for excision when removal is requested.
	// LegacyThumbLines is the number of physical lines it spans.
	LegacyThumb      token.Token
	LegacyThumbLines int
}

// slotFor maps a comment key to its capture slot, or nil if the key is
// not recognized.
func (m *Metadata) slotFor(key []byte) *token.Token {
	switch {
	case string(key) == keyFilamentUsed:
		return &m.FilamentUsed
	case string(key) == keyLayerHeight:
		return &m.LayerHeight
	case string(key) == keyFirstLayerHeight:
		return &m.FirstLayerHeight
	case bytes.HasPrefix(key, []byte(keyEstimatedTime)):
		return &m.EstimatedTime
	case string(key) == keyNozzleTemp:
		return &m.NozzleTemp
	case string(key) == keyPlateTemp:
		return &m.PlateTemp
	case string(key) == keyPrintSpeed:
		return &m.PrintSpeed
	}
	return nil
}
