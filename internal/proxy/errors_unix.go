//go:build unix

package proxy

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isPeerReset reports whether err means the peer forcibly closed its end.
func isPeerReset(err error) bool {
	return errors.Is(err, unix.ECONNRESET) ||
		errors.Is(err, unix.EPIPE) ||
		errors.Is(err, unix.ECONNABORTED)
}

// isAcceptExhausted reports whether an Accept error is a resource shortage
// that may clear up once other connections close.
func isAcceptExhausted(err error) bool {
	return errors.Is(err, unix.EMFILE) ||
		errors.Is(err, unix.ENFILE) ||
		errors.Is(err, unix.ENOBUFS) ||
		errors.Is(err, unix.ENOMEM)
}
