// Snapmaker 2.0 header synthesis
//
// Formats the values captured and computed during the scan into the
// fixed-order header block the Snapmaker terminal expects, byte for
// byte. Triggered once, after the scan completes.
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package header

import (
	"fmt"
	"io"

	"sm2pspp-go/pkg/gcode"
)

// Tool identity. The first header line doubles as the idempotence
// marker recognized by the lexer on a later run.
const (
	ToolName = "sm2pspp"
	Version  = "1.2.0"
	URL      = "https://github.com/sm2pspp/sm2pspp-go"
)

// baseLines is the number of physical lines the fixed header occupies,
// blank lines included. The thumbnail line and the secondary-nozzle
// line add to it when emitted.
const baseLines = 24

// secondaryNozzleMin is the threshold above which the secondary nozzle
// temperature counts as a genuinely heated second nozzle.
const secondaryNozzleMin = 0.1

// Values carries everything the synthesizer needs. All numeric fields
// are already parsed; zero is the fallback for anything the scan did
// not capture.
type Values struct {
	FilamentMM   float64 // filament used, millimeters (emitted as meters)
	LayerHeight  float64
	EstimatedSec uint
	NozzleTemp   float64 // primary nozzle, °C
	NozzleTemp2  float64 // secondary nozzle; line emitted only above threshold
	PlateTemp    float64
	SpeedMMS     float64 // mm/s (emitted as mm/min)
	Box          gcode.Box

	// Thumbnail is the raw captured span; non-base64 bytes are filtered
	// out on write. Empty means no thumbnail line.
	Thumbnail []byte

	// InputLines is the scan's final line counter; RemovedLines is the
	// physical line count of an excised legacy thumbnail block (0 when
	// removal is off or no block was found).
	InputLines   int
	RemovedLines int
}

// predictedLines computes the file_total_lines field: the input's line
// count plus the synthesized header, minus what the rewrite removes.
func (v *Values) predictedLines() int {
	n := v.InputLines + baseLines - v.RemovedLines
	if len(v.Thumbnail) > 0 {
		n++
	}
	if v.NozzleTemp2 > secondaryNozzleMin {
		n++
	}
	return n
}

// writer latches the first write error so the emission code can stay
// linear.
type writer struct {
	w   io.Writer
	err error
}

func (hw *writer) str(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *writer) printf(format string, args ...interface{}) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

func (hw *writer) bytes(b []byte) {
	if hw.err != nil {
		return
	}
	_, hw.err = hw.w.Write(b)
}

func isBase64(ch byte) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '+' || ch == '/' || ch == '='
}

// base64Runs writes the base64-alphabet runs of the raw thumbnail span,
// dropping comment prefixes, spaces and newlines in between.
func (hw *writer) base64Runs(payload []byte) {
	start := -1
	for i, ch := range payload {
		if isBase64(ch) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			hw.bytes(payload[start:i])
			start = -1
		}
	}
	if start >= 0 {
		hw.bytes(payload[start:])
	}
}

// Write emits the complete header block to w. The bounding box falls
// back to all zeros when no extruding move was observed; infinities are
// never emitted.
func Write(w io.Writer, v *Values) error {
	box := v.Box
	if box.Empty() {
		box = gcode.Box{}
	}
	hw := &writer{w: w}
	hw.printf(";post-processed by %s %s (%s)\n", ToolName, Version, URL)
	hw.str(";Header Start\n\n")
	hw.str(";FLAVOR:Marlin\n")
	hw.str(";TIME:6666\n\n\n")
	hw.printf(";Filament used: %.0fm\n", v.FilamentMM/1000)
	hw.printf(";Layer height: %.2f\n", v.LayerHeight)
	hw.str(";header_type: 3dp\n")
	if len(v.Thumbnail) > 0 {
		hw.str(";thumbnail: data:image/png;base64,")
		hw.base64Runs(v.Thumbnail)
		hw.str("\n")
	}
	hw.printf(";file_total_lines: %d\n", v.predictedLines())
	hw.printf(";estimated_time(s): %d\n", v.EstimatedSec)
	hw.printf(";nozzle_temperature(°C): %.0f\n", v.NozzleTemp)
	if v.NozzleTemp2 > secondaryNozzleMin {
		hw.printf(";nozzle_1_temperature(°C): %.0f\n", v.NozzleTemp2)
	}
	hw.printf(";build_plate_temperature(°C): %.0f\n", v.PlateTemp)
	hw.printf(";work_speed(mm/minute): %.0f\n", v.SpeedMMS*60)
	hw.printf(";max_x(mm): %.2f\n", box.MaxX)
	hw.printf(";max_y(mm): %.2f\n", box.MaxY)
	hw.printf(";max_z(mm): %.2f\n", box.MaxZ)
	hw.printf(";min_x(mm): %.2f\n", box.MinX)
	hw.printf(";min_y(mm): %.2f\n", box.MinY)
	hw.printf(";min_z(mm): %.2f\n\n", box.MinZ)
	hw.str(";Header End\n\n")
	return hw.err
}
