package proxy

import (
	"fmt"
	"io"
)

type flusher interface {
	Flush() error
}

type closeWriter interface {
	CloseWrite() error
}

// Relay copies src to dst until src reaches EOF or either side fails, then
// shuts down dst's write half so dst's peer sees EOF as well.
//
// Each chunk read is written in full and flushed before the next read, so
// no more than RelayBufferSize bytes are ever held. A nil error means src
// ended gracefully. Errors are never retried.
func Relay(dst io.Writer, src io.Reader) (int64, error) {
	buf := relayBuffers.Get()
	defer relayBuffers.Put(buf)

	n, err := relay(dst, src, *buf)
	_ = closeWrite(dst)
	return n, err
}

func relay(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr == nil && nw != nr {
				werr = io.ErrShortWrite
			}
			if werr == nil {
				werr = flush(dst)
			}
			if werr != nil {
				return written, fmt.Errorf("relay write: %w", werr)
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				return written, nil
			}
			return written, fmt.Errorf("relay read: %w", rerr)
		}
	}
}

func flush(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// closeWrite half-closes w if it supports it (*net.TCPConn, *tls.Conn).
func closeWrite(w io.Writer) error {
	if cw, ok := w.(closeWriter); ok {
		return cw.CloseWrite()
	}
	return nil
}
