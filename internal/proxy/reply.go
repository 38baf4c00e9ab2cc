package proxy

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	connectEstablished = "HTTP/1.1 200 Connection Established\r\n\r\n"
	methodNotAllowed   = "HTTP/1.1 405 Method Not Allowed\r\n\r\n"
)

// lingerTimeout is how long a replied-to client gets to hang up before
// its connection is closed outright. Closing with unread input would send a
// reset that can destroy the reply in flight.
const lingerTimeout = 500 * time.Millisecond

// writeError writes a minimal error response for code carrying err's text.
func writeError(w io.Writer, code int, err error) error {
	_, werr := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\nContent-Type: text/plain; charset=utf-8\r\nConnection: close\r\n\r\n%s\r\n", code, http.StatusText(code), err.Error())
	return werr
}

// lingeringClose half-closes c and discards input until the client hangs up
// or lingerTimeout passes. The caller still closes c.
func lingeringClose(c net.Conn) {
	_ = closeWrite(c)
	_ = c.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(c, 64<<10))
}
