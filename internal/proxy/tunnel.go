package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/die-net/tetanux/internal/request"
)

// tunnel connects to ep and relays bytes both ways until both directions
// have ended. early holds client bytes that arrived behind the CONNECT
// header block; they reach the target first.
func (c *conn) tunnel(ctx context.Context, ep request.Endpoint, early []byte) error {
	target, err := c.connect(ctx, ep)
	if err != nil {
		return err
	}
	defer target.Close()

	c.setState(StateEstablished)
	if _, err := io.WriteString(c.client, connectEstablished); err != nil {
		return fmt.Errorf("write established: %w", err)
	}

	c.setState(StateRelaying)
	var fromClient io.Reader = c.client
	if len(early) > 0 {
		fromClient = io.MultiReader(bytes.NewReader(early), c.client)
	}

	up, down, err := relayBoth(ctx, c.client, fromClient, target)
	c.logf("tunnel %s: %d bytes up, %d bytes down, %s", ep, up, down, relayOutcome(err))
	return err
}

// relayBoth runs the two directions of a tunnel concurrently and waits for
// both. A graceful EOF in one direction only half-closes the other side; a
// failure in either direction, or ctx ending, closes both connections.
func relayBoth(ctx context.Context, client net.Conn, fromClient io.Reader, target net.Conn) (up, down int64, err error) {
	g, gctx := errgroup.WithContext(ctx)

	stop := context.AfterFunc(gctx, func() {
		_ = client.Close()
		_ = target.Close()
	})
	defer stop()

	g.Go(func() error {
		var err error
		up, err = Relay(target, fromClient)
		return err
	})
	g.Go(func() error {
		var err error
		down, err = Relay(client, target)
		return err
	})

	err = g.Wait()
	return up, down, err
}
