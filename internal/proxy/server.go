package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/die-net/tetanux/internal/request"
)

// Server accepts proxy clients and runs each connection independently.
type Server struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
	nextID atomic.Uint64
	wg     sync.WaitGroup
}

// NewServer constructs a Server. Cancelling ctx stops Serve and tears down
// every connection it started.
func NewServer(ctx context.Context, cfg Config) *Server {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Server{ctx: ctx, cancel: cancel, cfg: cfg}
}

// Serve accepts connections on ln until ln fails or the server context is
// cancelled. Either way every connection it started is torn down and
// waited for before Serve returns; cancellation returns nil.
//
// A Server is done once Serve returns.
func (s *Server) Serve(ln net.Listener) error {
	stop := context.AfterFunc(s.ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	var backoff time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			if isAcceptExhausted(err) {
				backoff = min(max(2*backoff, 5*time.Millisecond), time.Second)
				log.Printf("accept: %v; retrying in %v", err, backoff)
				if !s.sleep(backoff) {
					s.wg.Wait()
					return nil
				}
				continue
			}
			s.cancel()
			s.wg.Wait()
			return fmt.Errorf("accept: %w", err)
		}
		backoff = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(c)
		}()
	}
}

// sleep waits for d, returning false early if the server context ends.
func (s *Server) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Server) handle(client net.Conn) {
	defer client.Close()

	stop := context.AfterFunc(s.ctx, func() {
		_ = client.Close()
	})
	defer stop()

	c := &conn{srv: s, id: s.nextID.Add(1), client: client}
	if err := c.serve(s.ctx); err != nil {
		c.logf("%v", err)
	}
	c.setState(StateClosed)
}

func (s *Server) dial(ctx context.Context, ep request.Endpoint) (net.Conn, error) {
	up, err := s.cfg.Dialer.DialContext(ctx, "tcp", ep.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamConnect, ep, err)
	}
	return up, nil
}

// State is a connection's position in its lifecycle.
type State int

const (
	StateReading State = iota
	StateConnecting
	StateEstablished
	StateRelaying
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReading:
		return "reading"
	case StateConnecting:
		return "connecting"
	case StateEstablished:
		return "established"
	case StateRelaying:
		return "relaying"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// conn is one client connection. Its fields are only touched by the
// goroutine running serve.
type conn struct {
	srv    *Server
	id     uint64
	client net.Conn
	state  State
}

func (c *conn) logf(format string, args ...any) {
	if c.srv.cfg.Verbose {
		log.Printf("conn %d %s: "+format, append([]any{c.id, c.client.RemoteAddr()}, args...)...)
	}
}

func (c *conn) setState(s State) {
	if c.state == s {
		return
	}
	c.logf("%s -> %s", c.state, s)
	c.state = s
}

func (c *conn) serve(ctx context.Context) error {
	if t := c.srv.cfg.NegotiationTimeout; t > 0 {
		_ = c.client.SetReadDeadline(time.Now().Add(t))
	}

	buf := make([]byte, request.MaxHeaderBytes)
	req, early, err := request.Read(c.client, buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read request: %w", err)
	}
	_ = c.client.SetReadDeadline(time.Time{})

	d, err := request.Classify(req)
	if err != nil {
		return err
	}
	c.logf("%s %s: %s", req.Method, req.Target, d.Intent)

	switch d.Intent {
	case request.Tunnel:
		return c.tunnel(ctx, d.Endpoint, early)
	case request.Forward:
		return c.forward(ctx, d.Endpoint, d.Request, early)
	default:
		return c.reject()
	}
}

func (c *conn) reject() error {
	if _, err := io.WriteString(c.client, methodNotAllowed); err != nil {
		return fmt.Errorf("write reject: %w", err)
	}
	lingeringClose(c.client)
	return nil
}

// connect dials ep, replying 502 to the client if that fails.
func (c *conn) connect(ctx context.Context, ep request.Endpoint) (net.Conn, error) {
	c.setState(StateConnecting)

	up, err := c.srv.dial(ctx, ep)
	if err != nil {
		if werr := writeError(c.client, http.StatusBadGateway, err); werr == nil {
			lingeringClose(c.client)
		}
		return nil, err
	}
	return up, nil
}
