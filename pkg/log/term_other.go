//go:build !linux && !darwin

package log

// isTerminal is a stub for platforms without a termios probe; color is
// disabled there.
func isTerminal(fd int) bool {
	return false
}
