//go:build darwin

package log

import "golang.org/x/sys/unix"

// Platform-specific ioctl constant for macOS
const ioctlGetTermios = unix.TIOCGETA

// isTerminal reports whether fd refers to a terminal.
func isTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	return err == nil
}
