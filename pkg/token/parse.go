// Numeric micro-parsers with deliberate truncation semantics
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package token

// ParseUint converts leading decimal digits into an unsigned value,
// stopping at the first non-digit byte. There is no sign handling and
// no overflow check: large runs wrap per native uint arithmetic. The
// scan is lenient by contract, so malformed input degrades to 0 rather
// than producing an error.
func ParseUint(b []byte) uint {
	var v uint
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			break
		}
		v = v*10 + uint(ch-'0')
	}
	return v
}

// ParseFloat converts a simple decimal number: an optional single
// leading '-', digits, an optional single '.', more digits. Parsing
// stops at the first byte outside this shape; exponent notation is not
// supported. Empty or malformed input yields 0.
func ParseFloat(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	neg := false
	i := 0
	if b[0] == '-' {
		neg = true
		i = 1
	}
	var whole, frac uint64
	fracDiv := 1.0
	inFrac := false
loop:
	for ; i < len(b); i++ {
		ch := b[i]
		switch {
		case ch >= '0' && ch <= '9':
			if inFrac {
				frac = frac*10 + uint64(ch-'0')
				fracDiv *= 10
			} else {
				whole = whole*10 + uint64(ch-'0')
			}
		case ch == '.' && !inFrac:
			inFrac = true
		default:
			break loop
		}
	}
	v := float64(whole) + float64(frac)/fracDiv
	if neg {
		v = -v
	}
	return v
}

// ParseSeconds converts a slicer duration such as "1d11h32m56s" into
// seconds. Each digit run contributes only when terminated by one of
// the unit bytes 'd', 'h', 'm' or 's'; a trailing run without a unit is
// discarded. Bytes outside digits and units are skipped without
// resetting the current run.
func ParseSeconds(b []byte) uint {
	var total, run uint
	for _, ch := range b {
		switch ch {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			run = run*10 + uint(ch-'0')
		case 'd':
			total += run * 86400
			run = 0
		case 'h':
			total += run * 3600
			run = 0
		case 'm':
			total += run * 60
			run = 0
		case 's':
			total += run
			run = 0
		}
	}
	return total
}
