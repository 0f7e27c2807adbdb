// Single-pass G-code lexer and state machine
//
// Tokenizes a fully buffered slicer file in one left-to-right pass with
// no lookahead beyond the current byte and no backtracking. Metadata
// capture and bounding-box accumulation happen as per-state side
// effects while scanning. No input byte sequence is a hard error:
// malformed numeric runs degrade to 0 in the micro-parsers.
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import "sm2pspp-go/pkg/token"

// state is the lexer's current mode, advanced once per input byte.
type state int

const (
	stLineStart state = iota
	stSkipToLineEnd
	stCommand
	stComment
	stParamValue
	stThumbBody
	stThumbTail
)

// Result reports how a full scan ended.
type Result int

const (
	// Scanned reports a completed pass with state accumulated.
	Scanned Result = iota
	// AlreadyProcessed reports that the file carries the
	// post-processing marker and must be left untouched.
	AlreadyProcessed
)

// Lexer drives the single pass over the buffered file. The buffer
// belongs to the caller; all captured tokens view it.
type Lexer struct {
	buf []byte

	// Meta and Geom accumulate the scan's side effects and are read by
	// the caller once Run returns.
	Meta Metadata
	Geom *Tracker

	// captureLegacy enables tracking of the original thumbnail block's
	// byte span for later excision.
	captureLegacy bool

	st state

	// Line accounting. line is 1-based; '\n' advances it while '\r'
	// only re-anchors lineStart.
	line      int
	lineStart int

	// Comment first-token capture (also reused inside the thumbnail
	// body for end-marker detection). cStart is -1 while inactive.
	cStart, cLen int

	// Active metadata slot while in stParamValue.
	slot *token.Token

	// Command parsing: the active parameter letter (0 when none), the
	// span of its numeric token, the move under construction and the
	// command code captured from the leading G word.
	paramLetter      byte
	parStart, parEnd int
	pending          Move
	cmdCode          uint
	haveCode         bool

	// Thumbnail tracking. thumbStart is the payload start offset (-1
	// until the begin marker's line ends); legacyStart anchors the full
	// block when captureLegacy is set.
	thumbStart  int
	legacyStart int
	legacyLines int
}

// NewLexer prepares a scan over buf. removeLegacyThumb requests capture
// of the original thumbnail block's span so the rewriter can excise it.
func NewLexer(buf []byte, removeLegacyThumb bool) *Lexer {
	return &Lexer{
		buf:           buf,
		Geom:          NewTracker(),
		captureLegacy: removeLegacyThumb,
		line:          1,
		cStart:        -1,
		parStart:      -1,
		thumbStart:    -1,
		legacyStart:   -1,
	}
}

// Line returns the line counter after the scan: 1 plus the number of
// newlines consumed.
func (lx *Lexer) Line() int { return lx.line }

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Run performs the scan. It returns AlreadyProcessed as soon as the
// idempotence marker is seen; the caller must then leave the file
// untouched.
func (lx *Lexer) Run() Result {
	for i := 0; i < len(lx.buf); i++ {
		ch := lx.buf[i]
		switch lx.st {
		case stLineStart:
			if ch == ';' {
				lx.resetComment()
				lx.st = stComment
			} else if ch == 'G' {
				lx.beginCommand()
			} else if !isSpace(ch) {
				lx.st = stSkipToLineEnd
			}
		case stSkipToLineEnd:
			if ch == '\n' {
				lx.st = stLineStart
			}
		case stCommand:
			lx.commandByte(i, ch)
		case stComment:
			if lx.commentByte(i, ch) {
				return AlreadyProcessed
			}
		case stParamValue:
			lx.valueByte(i, ch)
		case stThumbBody:
			lx.thumbnailByte(i, ch)
		case stThumbTail:
			if ch == '\n' {
				lx.Meta.LegacyThumb.Len = i + 1 - lx.legacyStart
				lx.Meta.LegacyThumbLines = lx.legacyLines
				lx.st = stLineStart
			}
		}
		if ch == '\n' {
			lx.line++
			lx.lineStart = i + 1
		} else if ch == '\r' {
			lx.lineStart = i + 1
		}
	}
	// A final command line without a trailing newline still counts.
	if lx.st == stCommand {
		lx.closeParam()
		lx.dispatchCommand()
	}
	return Scanned
}

func (lx *Lexer) resetComment() {
	lx.cStart = -1
	lx.cLen = 0
}

func (lx *Lexer) beginCommand() {
	lx.st = stCommand
	lx.paramLetter = 'G'
	lx.parStart = -1
	lx.pending = Move{}
	lx.haveCode = false
}

// closeParam dispatches the active parameter token, if any, to its
// micro-parser and deactivates the parameter.
func (lx *Lexer) closeParam() {
	if lx.paramLetter != 0 && lx.parStart >= 0 {
		val := lx.buf[lx.parStart:lx.parEnd]
		switch lx.paramLetter {
		case 'G':
			lx.cmdCode = token.ParseUint(val)
			lx.haveCode = true
		case 'X':
			lx.pending.X = token.ParseFloat(val)
			lx.pending.HasX = true
		case 'Y':
			lx.pending.Y = token.ParseFloat(val)
			lx.pending.HasY = true
		case 'Z':
			lx.pending.Z = token.ParseFloat(val)
			lx.pending.HasZ = true
		case 'E':
			lx.pending.E = token.ParseFloat(val)
			lx.pending.HasE = true
		}
	}
	lx.paramLetter = 0
	lx.parStart = -1
}

// dispatchCommand routes a completed command line. G0/G1 update the
// geometry tracker; G90/G91 toggle the positioning mode. Everything
// else is ignored.
func (lx *Lexer) dispatchCommand() {
	if !lx.haveCode {
		lx.pending = Move{}
		return
	}
	switch lx.cmdCode {
	case 0, 1:
		lx.Geom.Apply(lx.pending)
	case 90:
		lx.Geom.SetMode(Absolute)
	case 91:
		lx.Geom.SetMode(Relative)
	}
	lx.pending = Move{}
	lx.haveCode = false
}

func (lx *Lexer) commandByte(i int, ch byte) {
	switch {
	case ch == '\n':
		lx.closeParam()
		lx.dispatchCommand()
		lx.st = stLineStart
	case ch == ';':
		lx.closeParam()
		lx.dispatchCommand()
		lx.resetComment()
		lx.st = stComment
	case ch == 'G' || ch == 'X' || ch == 'Y' || ch == 'Z' || ch == 'E':
		lx.closeParam()
		lx.paramLetter = ch
	case (ch >= '0' && ch <= '9') || ch == '-' || ch == '.':
		if lx.paramLetter != 0 {
			if lx.parStart < 0 {
				lx.parStart = i
			}
			lx.parEnd = i + 1
		}
	default:
		// Space or an unhandled word letter (F, S, ...): close the
		// active parameter and ignore bytes until the next recognized
		// letter.
		lx.closeParam()
	}
}

// commentByte handles one byte of a comment line. It returns true when
// the idempotence marker was recognized and the scan must stop.
func (lx *Lexer) commentByte(i int, ch byte) bool {
	switch {
	case ch == '\n':
		if lx.cStart >= 0 && string(lx.buf[lx.cStart:lx.cStart+lx.cLen]) == markerLayerChange {
			lx.Geom.LayerChange()
		}
		lx.st = stLineStart
	case lx.cStart < 0:
		if !isSpace(ch) {
			lx.cStart = i
			lx.cLen = 1
		}
	case ch == ' ' && lx.cLen > 0:
		// Multi-word markers match on the space following them because
		// the token view keeps growing across interior spaces.
		tok := lx.buf[lx.cStart : lx.cStart+lx.cLen]
		if string(tok) == markerProcessed {
			return true
		}
		if string(tok) == markerThumbBegin {
			if lx.captureLegacy && lx.legacyStart < 0 {
				lx.legacyStart = lx.lineStart
				lx.legacyLines = 1
			}
			lx.resetComment()
			if lx.thumbStart < 0 {
				lx.st = stThumbBody
			} else {
				// Only the first thumbnail block is honored.
				lx.st = stSkipToLineEnd
			}
		}
	case ch == '=':
		lx.slot = lx.Meta.slotFor(lx.buf[lx.cStart : lx.cStart+lx.cLen])
		lx.resetComment()
		if lx.slot == nil || !lx.slot.Empty() {
			// Unrecognized key, or a duplicate: first occurrence wins.
			lx.slot = nil
			lx.st = stSkipToLineEnd
		} else {
			lx.st = stParamValue
		}
	case !isSpace(ch):
		lx.cLen = i - lx.cStart + 1
	}
	return false
}

// valueByte captures a metadata value from the first non-space byte to
// the last, trimming trailing spaces. For the primary nozzle slot a
// comma switches capture to the secondary nozzle slot instead of ending
// the line (dual-extruder form "210,200").
func (lx *Lexer) valueByte(i int, ch byte) {
	switch {
	case ch == '\n':
		lx.slot = nil
		lx.st = stLineStart
	case ch == ',' && lx.slot == &lx.Meta.NozzleTemp:
		lx.slot = &lx.Meta.NozzleTemp2
	case lx.slot.Empty():
		if !isSpace(ch) {
			lx.slot.Off = i
			lx.slot.Len = 1
		}
	case !isSpace(ch):
		lx.slot.Len = i - lx.slot.Off + 1
	}
}

// thumbnailByte scans the thumbnail block: everything after the begin
// marker line up to the "thumbnail end" marker word. The payload span
// starts right after the begin line's newline and ends at the start of
// the end-marker line; comment prefixes inside are filtered out later,
// at emission.
func (lx *Lexer) thumbnailByte(i int, ch byte) {
	if lx.captureLegacy && ch == '\n' {
		lx.legacyLines++
	}
	switch {
	case lx.thumbStart < 0:
		if ch == '\n' {
			lx.thumbStart = i + 1
		}
	case ch == ';':
		lx.cStart = i + 1
		lx.cLen = 0
	case lx.cStart >= 0:
		if lx.cStart < len(lx.buf) && isSpace(lx.buf[lx.cStart]) {
			// Skip the spaces between ';' and the marker word.
			lx.cStart = i
			lx.cLen = 1
			return
		}
		lx.cLen++
		if string(lx.buf[lx.cStart:lx.cStart+lx.cLen]) == markerThumbEnd {
			lx.Meta.Thumbnail = token.Token{Off: lx.thumbStart, Len: lx.lineStart - lx.thumbStart}
			if lx.captureLegacy {
				// Provisional span; extended to the end of this line by
				// the tail state.
				lx.Meta.LegacyThumb = token.Token{Off: lx.legacyStart, Len: i - lx.legacyStart}
				lx.Meta.LegacyThumbLines = lx.legacyLines
				lx.st = stThumbTail
			} else {
				lx.st = stSkipToLineEnd
			}
		}
	}
}
