//go:build linux

package log

import "golang.org/x/sys/unix"

// Platform-specific ioctl constant for Linux
const ioctlGetTermios = unix.TCGETS

// isTerminal reports whether fd refers to a terminal.
func isTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	return err == nil
}
