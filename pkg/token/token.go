// Buffer-slice tokens for the single-pass G-code scan
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package token provides non-owning views into the input buffer and the
// numeric micro-parsers used on them. A Token never copies payload
// bytes; it is only meaningful together with the buffer it was captured
// from and must not outlive it.
package token

// Token is a view into the input buffer, identified by byte offset and
// length. The zero value means "not captured".
type Token struct {
	Off int
	Len int
}

// Empty reports whether the token has captured nothing.
func (t Token) Empty() bool { return t.Len == 0 }

// End returns the offset one past the last byte of the token.
func (t Token) End() int { return t.Off + t.Len }

// View returns the token's bytes within buf without copying.
func (t Token) View(buf []byte) []byte {
	if t.Len <= 0 {
		return nil
	}
	return buf[t.Off:t.End()]
}
