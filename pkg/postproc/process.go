// In-place conversion of a slicer G-code file
//
// Buffers the whole file, runs the single scan pass, reports
// missing-metadata warnings through the caller's decision callback, and
// rewrites the file as header plus original body. All owned resources
// are released on every exit path.
//
// Known limitation: the rewrite truncates the target in place with no
// temp-file swap. A write failure partway through leaves the target
// truncated; there is no partial-write recovery.
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package postproc

import (
	"bufio"
	"io"
	"os"

	"sm2pspp-go/pkg/errors"
	"sm2pspp-go/pkg/gcode"
	"sm2pspp-go/pkg/header"
	"sm2pspp-go/pkg/log"
	"sm2pspp-go/pkg/token"
)

// Decision is the continuation value a warning callback returns.
type Decision int

const (
	// Continue proceeds with the conversion.
	Continue Decision = iota
	// Abort stops processing before the target file is modified.
	Abort
)

// DiagnosticFunc receives one missing-metadata warning after the parse
// pass completes. Returning Abort stops processing; since all warnings
// are delivered between the parse and the rewrite, an abort never
// happens mid-parse or mid-write and the file is left untouched.
type DiagnosticFunc func(code errors.Code, path string, line int) Decision

// Options controls a conversion run.
type Options struct {
	// RemoveLegacyThumbnail excises the slicer's original thumbnail
	// comment block from the rewritten body.
	RemoveLegacyThumbnail bool

	// OnWarning is consulted once per missing-metadata warning. Nil
	// means log and continue.
	OnWarning DiagnosticFunc

	// Logger receives diagnostics; nil uses a default stderr logger.
	Logger *log.Logger
}

// ProcessFile converts the slicer-generated G-code file at path into a
// Snapmaker 2.0 compatible file, in place. A file that already carries
// the post-processing marker is left byte-for-byte unchanged and
// reported as success, as is an empty file. The returned error carries
// an errors.Code; an abort requested by the warning callback surfaces
// as errors.ErrAborted.
func ProcessFile(path string, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New("postproc")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(err, errors.ErrFileNotFound).SetPath(path)
		}
		return errors.Wrap(err, errors.ErrFileOpen).SetPath(path)
	}
	buf, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileRead).SetPath(path)
	}
	if len(buf) == 0 {
		logger.Debug("%s: empty file, nothing to do", path)
		return nil
	}

	lx := gcode.NewLexer(buf, opts.RemoveLegacyThumbnail)
	if lx.Run() == gcode.AlreadyProcessed {
		logger.Info("%s: already post-processed, leaving untouched", path)
		return nil
	}
	logger.Debug("%s: scanned %d lines", path, lx.Line())

	if err := reportMissing(lx, path, opts, logger); err != nil {
		return err
	}
	return rewrite(path, buf, lx, opts, logger)
}

// reportMissing delivers one warning per empty metadata slot, in the
// original tool's fixed order, and translates an Abort decision into an
// error before the file is touched.
func reportMissing(lx *gcode.Lexer, path string, opts Options, logger *log.Logger) error {
	warn := opts.OnWarning
	if warn == nil {
		warn = func(code errors.Code, path string, line int) Decision {
			logger.Warn("%s:%d: %s", path, line, code.Text())
			return Continue
		}
	}
	m := &lx.Meta
	checks := []struct {
		code errors.Code
		tok  token.Token
	}{
		{errors.WarnNoFilamentUsed, m.FilamentUsed},
		{errors.WarnNoLayerHeight, m.LayerHeight},
		{errors.WarnNoEstTime, m.EstimatedTime},
		{errors.WarnNoNozzleTemp, m.NozzleTemp},
		{errors.WarnNoPlateTemp, m.PlateTemp},
		{errors.WarnNoPrintSpeed, m.PrintSpeed},
		{errors.WarnNoThumbnail, m.Thumbnail},
	}
	for _, c := range checks {
		if !c.tok.Empty() {
			continue
		}
		if warn(c.code, path, lx.Line()) == Abort {
			return errors.New(errors.ErrAborted).SetPath(path)
		}
	}
	return nil
}

// rewrite truncates the target and emits header plus body in one write
// sequence.
func rewrite(path string, buf []byte, lx *gcode.Lexer, opts Options, logger *log.Logger) error {
	m := &lx.Meta
	removed := 0
	excise := opts.RemoveLegacyThumbnail && !m.LegacyThumb.Empty()
	if excise {
		removed = m.LegacyThumbLines
	}
	vals := &header.Values{
		FilamentMM:   token.ParseFloat(m.FilamentUsed.View(buf)),
		LayerHeight:  token.ParseFloat(m.LayerHeight.View(buf)),
		EstimatedSec: token.ParseSeconds(m.EstimatedTime.View(buf)),
		NozzleTemp:   token.ParseFloat(m.NozzleTemp.View(buf)),
		NozzleTemp2:  token.ParseFloat(m.NozzleTemp2.View(buf)),
		PlateTemp:    token.ParseFloat(m.PlateTemp.View(buf)),
		SpeedMMS:     token.ParseFloat(m.PrintSpeed.View(buf)),
		Box:          lx.Geom.Finish(token.ParseFloat(m.FirstLayerHeight.View(buf))),
		Thumbnail:    m.Thumbnail.View(buf),
		InputLines:   lx.Line(),
		RemovedLines: removed,
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileCreate).SetPath(path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := header.Write(w, vals); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite).SetPath(path)
	}
	if excise {
		logger.Debug("%s: removing original thumbnail block (%d lines, %d bytes)",
			path, removed, m.LegacyThumb.Len)
		if _, err := w.Write(buf[:m.LegacyThumb.Off]); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite).SetPath(path)
		}
		if _, err := w.Write(buf[m.LegacyThumb.End():]); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite).SetPath(path)
		}
	} else {
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite).SetPath(path)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite).SetPath(path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite).SetPath(path)
	}
	return nil
}
