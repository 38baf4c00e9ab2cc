package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	// MaxHeaderBytes is the capacity of a connection's header buffer.
	MaxHeaderBytes = 1024

	// MaxHeaders is the most header fields a request may carry.
	MaxHeaders = 64
)

// Header is a single header field. Name is kept exactly as received and
// Value loses its surrounding whitespace. Raw is the whole line as received,
// without its line terminator.
type Header struct {
	Name  string
	Value string
	Raw   string
}

// Request is a parsed request line and header block.
type Request struct {
	Method string
	// Target is an authority for CONNECT and an absolute URI for proxied
	// GET requests.
	Target string
	// Version is the protocol version as sent, e.g. "HTTP/1.1".
	Version string
	// Headers are in arrival order; duplicates are kept.
	Headers []Header
}

// Header returns the value of the first header field named name, compared
// case-insensitively.
func (r *Request) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Parse parses the request line and header block at the start of buf.
//
// It returns the request and the number of bytes the block used. If buf
// doesn't hold a complete block yet it returns ErrIncomplete; any other
// error wraps ErrMalformed and is final.
func Parse(buf []byte) (*Request, int, error) {
	var req *Request

	pos := 0
	for {
		line, next, ok := nextLine(buf, pos)
		if !ok {
			return nil, 0, ErrIncomplete
		}
		pos = next

		if req == nil {
			// Empty lines ahead of the request line are ignored.
			if len(line) == 0 {
				continue
			}
			r, err := parseRequestLine(line)
			if err != nil {
				return nil, 0, err
			}
			req = r
			continue
		}

		if len(line) == 0 {
			return req, pos, nil
		}

		if len(req.Headers) == MaxHeaders {
			return nil, 0, ErrTooManyHeaders
		}
		h, err := parseHeaderLine(line)
		if err != nil {
			return nil, 0, err
		}
		req.Headers = append(req.Headers, h)
	}
}

// Read reads from r into buf until Parse succeeds. It returns the request
// and whatever bytes arrived after the header block; the latter aliases buf.
//
// A block that doesn't fit in buf fails with ErrHeadersTooLarge. If r ends
// before any byte arrives Read returns io.EOF.
func Read(r io.Reader, buf []byte) (*Request, []byte, error) {
	nread := 0
	for {
		if nread == len(buf) {
			return nil, nil, ErrHeadersTooLarge
		}

		n, err := r.Read(buf[nread:])
		nread += n
		if n > 0 {
			req, used, perr := Parse(buf[:nread])
			switch {
			case perr == nil:
				return req, buf[used:nread], nil
			case !errors.Is(perr, ErrIncomplete):
				return nil, nil, perr
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if nread == 0 {
					return nil, nil, io.EOF
				}
				err = io.ErrUnexpectedEOF
			}
			return nil, nil, fmt.Errorf("read header block: %w", err)
		}
	}
}

// nextLine returns the line starting at pos without its LF or CRLF
// terminator, and the offset just past the terminator.
func nextLine(buf []byte, pos int) ([]byte, int, bool) {
	i := bytes.IndexByte(buf[pos:], '\n')
	if i < 0 {
		return nil, 0, false
	}
	line := buf[pos : pos+i]
	line = bytes.TrimSuffix(line, []byte{'\r'})
	return line, pos + i + 1, true
}

func parseRequestLine(line []byte) (*Request, error) {
	method, rest, ok := strings.Cut(string(line), " ")
	if !ok {
		return nil, malformed("request line %q", line)
	}
	target, version, ok := strings.Cut(rest, " ")
	if !ok {
		return nil, malformed("request line %q", line)
	}

	if !httpguts.ValidHeaderFieldName(method) {
		return nil, malformed("invalid method %q", method)
	}
	if target == "" || !validTarget(target) {
		return nil, malformed("invalid request target %q", target)
	}
	if major, _, ok := http.ParseHTTPVersion(version); !ok || major != 1 {
		return nil, malformed("unsupported version %q", version)
	}

	return &Request{Method: method, Target: target, Version: version}, nil
}

func parseHeaderLine(line []byte) (Header, error) {
	if line[0] == ' ' || line[0] == '\t' {
		return Header{}, malformed("obsolete line folding")
	}

	name, value, ok := bytes.Cut(line, []byte{':'})
	if !ok {
		return Header{}, malformed("header line without colon %q", line)
	}
	if !httpguts.ValidHeaderFieldName(string(name)) {
		return Header{}, malformed("invalid header name %q", name)
	}
	v := strings.Trim(string(value), " \t")
	if !httpguts.ValidHeaderFieldValue(v) {
		return Header{}, malformed("invalid value for header %q", name)
	}

	return Header{Name: string(name), Value: v, Raw: string(line)}, nil
}

func validTarget(target string) bool {
	for i := 0; i < len(target); i++ {
		if c := target[i]; c <= ' ' || c == 0x7f {
			return false
		}
	}
	return true
}
