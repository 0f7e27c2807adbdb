// Header synthesis tests
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package header

import (
	"bytes"
	"strings"
	"testing"

	"sm2pspp-go/pkg/gcode"
)

func TestWriteFull(t *testing.T) {
	v := &Values{
		FilamentMM:   2340,
		LayerHeight:  0.2,
		EstimatedSec: 3723,
		NozzleTemp:   210,
		NozzleTemp2:  200,
		PlateTemp:    60,
		SpeedMMS:     100,
		Box: gcode.Box{
			MinX: 10, MinY: 10, MinZ: 0,
			MaxX: 25, MaxY: 15, MaxZ: 0.7,
		},
		Thumbnail:    []byte("; abc=\n;def\n"),
		InputLines:   100,
		RemovedLines: 3,
	}
	var buf bytes.Buffer
	if err := Write(&buf, v); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := ";post-processed by sm2pspp 1.2.0 (https://github.com/sm2pspp/sm2pspp-go)\n" +
		";Header Start\n" +
		"\n" +
		";FLAVOR:Marlin\n" +
		";TIME:6666\n" +
		"\n" +
		"\n" +
		";Filament used: 2m\n" +
		";Layer height: 0.20\n" +
		";header_type: 3dp\n" +
		";thumbnail: data:image/png;base64,abc=def\n" +
		";file_total_lines: 123\n" +
		";estimated_time(s): 3723\n" +
		";nozzle_temperature(°C): 210\n" +
		";nozzle_1_temperature(°C): 200\n" +
		";build_plate_temperature(°C): 60\n" +
		";work_speed(mm/minute): 6000\n" +
		";max_x(mm): 25.00\n" +
		";max_y(mm): 15.00\n" +
		";max_z(mm): 0.70\n" +
		";min_x(mm): 10.00\n" +
		";min_y(mm): 10.00\n" +
		";min_z(mm): 0.00\n" +
		"\n" +
		";Header End\n" +
		"\n"
	if got := buf.String(); got != want {
		t.Errorf("header mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteEmptyBoxFallsBackToZero(t *testing.T) {
	v := &Values{Box: gcode.NewTracker().Finish(0), InputLines: 10}
	var buf bytes.Buffer
	if err := Write(&buf, v); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Inf") || strings.Contains(out, "inf") {
		t.Errorf("header leaked infinities:\n%s", out)
	}
	for _, line := range []string{
		";max_x(mm): 0.00\n", ";max_y(mm): 0.00\n", ";max_z(mm): 0.00\n",
		";min_x(mm): 0.00\n", ";min_y(mm): 0.00\n",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("missing fallback line %q", line)
		}
	}
}

func TestSecondaryNozzleThreshold(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &Values{NozzleTemp: 210, NozzleTemp2: 0}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "nozzle_1_temperature") {
		t.Error("secondary nozzle line emitted at 0 degrees")
	}

	buf.Reset()
	if err := Write(&buf, &Values{NozzleTemp: 210, NozzleTemp2: 0.05}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "nozzle_1_temperature") {
		t.Error("secondary nozzle line emitted below threshold")
	}
}

func TestNoThumbnailLine(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &Values{InputLines: 50}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, ";thumbnail:") {
		t.Error("thumbnail line emitted without payload")
	}
	// 50 input lines + 24 header lines, no optional lines.
	if !strings.Contains(out, ";file_total_lines: 74\n") {
		t.Errorf("wrong predicted line count:\n%s", out)
	}
}

func TestPredictedLines(t *testing.T) {
	tests := []struct {
		name string
		v    Values
		want int
	}{
		{"plain", Values{InputLines: 100}, 124},
		{"thumbnail", Values{InputLines: 100, Thumbnail: []byte("aa")}, 125},
		{"dual nozzle", Values{InputLines: 100, NozzleTemp2: 200}, 125},
		{"removal", Values{InputLines: 100, RemovedLines: 20}, 104},
		{"all", Values{InputLines: 100, Thumbnail: []byte("aa"), NozzleTemp2: 200, RemovedLines: 20}, 106},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.predictedLines(); got != tt.want {
				t.Errorf("predictedLines = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHeaderLineCountMatchesConstant(t *testing.T) {
	// The emitted fixed header must occupy exactly baseLines physical
	// lines so file_total_lines predictions stay honest.
	var buf bytes.Buffer
	if err := Write(&buf, &Values{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != baseLines {
		t.Errorf("fixed header spans %d lines, want %d", got, baseLines)
	}

	buf.Reset()
	if err := Write(&buf, &Values{Thumbnail: []byte("aa"), NozzleTemp2: 200}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != baseLines+2 {
		t.Errorf("full header spans %d lines, want %d", got, baseLines+2)
	}
}
