package proxy

import (
	"context"
	"fmt"
	"net"

	"github.com/die-net/tetanux/internal/request"
)

// forward sends the rewritten request, plus any bytes that followed the
// client's header block, to the origin at ep and streams the response back
// unmodified. Client bytes arriving after that are discarded.
func (c *conn) forward(ctx context.Context, ep request.Endpoint, rewritten, early []byte) error {
	origin, err := c.connect(ctx, ep)
	if err != nil {
		return err
	}
	defer origin.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = origin.Close()
	})
	defer stop()

	bufs := net.Buffers{rewritten, early}
	if _, err := bufs.WriteTo(origin); err != nil {
		return fmt.Errorf("write request to %s: %w", ep, err)
	}

	c.setState(StateRelaying)
	n, err := Relay(c.client, origin)
	_ = closeWrite(origin)
	c.logf("forward %s: %d bytes, %s", ep, n, relayOutcome(err))
	if err != nil {
		return err
	}

	// Unread client input (a pipelined request) would turn the close into a
	// reset and drop response bytes still queued for the client.
	lingeringClose(c.client)
	return nil
}
