// Coded errors and warnings for the post-processor
//
// Fatal I/O errors abort processing immediately; missing-metadata
// warnings are routed through the caller's decision callback and do not
// abort by default. The codes mirror the original tool's message table.
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	stderrors "errors"
	"fmt"
)

// Code categorizes an error or warning.
type Code string

const (
	// Fatal errors
	ErrNoMem        Code = "NO_MEM"
	ErrFileNotFound Code = "FILE_NOT_FOUND"
	ErrFileOpen     Code = "FILE_OPEN"
	ErrFileRead     Code = "FILE_READ"
	ErrFileCreate   Code = "FILE_CREATE"
	ErrFileWrite    Code = "FILE_WRITE"
	ErrAborted      Code = "ABORTED"

	// Missing-metadata warnings
	WarnNoFilamentUsed Code = "NO_FILAMENT_USED"
	WarnNoLayerHeight  Code = "NO_LAYER_HEIGHT"
	WarnNoEstTime      Code = "NO_EST_TIME"
	WarnNoNozzleTemp   Code = "NO_NOZZLE_TEMP"
	WarnNoPlateTemp    Code = "NO_PLATE_TEMP"
	WarnNoPrintSpeed   Code = "NO_PRINT_SPEED"
	WarnNoThumbnail    Code = "NO_THUMBNAIL"
)

// Text returns the human-readable diagnostic for a code.
func (c Code) Text() string {
	switch c {
	case ErrNoMem:
		return "Failed to allocate memory."
	case ErrFileNotFound:
		return "Input file not found."
	case ErrFileOpen:
		return "Failed to open file for reading."
	case ErrFileRead:
		return "Failed to read data from file."
	case ErrFileCreate:
		return "Failed to create file for writing."
	case ErrFileWrite:
		return "Failed to write data to file."
	case ErrAborted:
		return "Aborted on request of the caller."
	case WarnNoFilamentUsed:
		return "Filament used value not found."
	case WarnNoLayerHeight:
		return "Layer height value not found."
	case WarnNoEstTime:
		return "Estimated time value not found."
	case WarnNoNozzleTemp:
		return "Nozzle temperature value not found."
	case WarnNoPlateTemp:
		return "Building plate temperature value not found."
	case WarnNoPrintSpeed:
		return "Print speed value not found."
	case WarnNoThumbnail:
		return "Thumbnail data not found."
	}
	return string(c)
}

// IsWarning reports whether the code is a recoverable missing-metadata
// warning rather than a fatal error.
func (c Code) IsWarning() bool {
	switch c {
	case WarnNoFilamentUsed, WarnNoLayerHeight, WarnNoEstTime,
		WarnNoNozzleTemp, WarnNoPlateTemp, WarnNoPrintSpeed, WarnNoThumbnail:
		return true
	}
	return false
}

// ProcessError is the unified error type for a conversion run.
type ProcessError struct {
	// Code is the error category
	Code Code

	// Path is the input file the error refers to (if any)
	Path string

	// Line is the input line number (0 if not applicable)
	Line int

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	msg := e.Code.Text()
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("[%s] %s:%d: %s", e.Code, e.Path, e.Line, msg)
	case e.Path != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// SetPath sets the input file path.
func (e *ProcessError) SetPath(path string) *ProcessError {
	e.Path = path
	return e
}

// SetLine sets the input line number.
func (e *ProcessError) SetLine(line int) *ProcessError {
	e.Line = line
	return e
}

// New creates a new ProcessError.
func New(code Code) *ProcessError {
	return &ProcessError{Code: code}
}

// Wrap wraps an existing error under a code.
func Wrap(err error, code Code) *ProcessError {
	return &ProcessError{Code: code, Err: err}
}

// Is checks whether err carries the given code.
func Is(err error, code Code) bool {
	var pe *ProcessError
	if stderrors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
