//go:build windows

package proxy

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// Winsock accept errors without a named constant in x/sys/windows.
const (
	wsaEMFILE  syscall.Errno = 10024
	wsaENOBUFS syscall.Errno = 10055
)

// isPeerReset reports whether err means the peer forcibly closed its end.
func isPeerReset(err error) bool {
	return errors.Is(err, windows.WSAECONNRESET) ||
		errors.Is(err, windows.WSAECONNABORTED) ||
		errors.Is(err, windows.ERROR_BROKEN_PIPE)
}

// isAcceptExhausted reports whether an Accept error is a resource shortage
// that may clear up once other connections close.
func isAcceptExhausted(err error) bool {
	return errors.Is(err, wsaEMFILE) || errors.Is(err, wsaENOBUFS)
}
