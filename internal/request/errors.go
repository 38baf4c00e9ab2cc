package request

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete means no terminating blank line has been seen yet. The
	// caller should read more bytes and parse the same, grown buffer again.
	ErrIncomplete = errors.New("request: incomplete header block")

	// ErrMalformed is wrapped by every error caused by bytes that can't form
	// an HTTP/1.x request line and header block.
	ErrMalformed = errors.New("request: malformed")

	ErrHeadersTooLarge = fmt.Errorf("%w: header block exceeds %d bytes", ErrMalformed, MaxHeaderBytes)
	ErrTooManyHeaders  = fmt.Errorf("%w: more than %d header fields", ErrMalformed, MaxHeaders)

	// ErrInvalidTarget is returned by Classify for a CONNECT authority or GET
	// URI it can't turn into an endpoint.
	ErrInvalidTarget = errors.New("request: invalid target")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

func invalidTarget(target string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidTarget, target, reason)
}
