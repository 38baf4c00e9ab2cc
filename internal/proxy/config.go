package proxy

import (
	"time"

	"github.com/die-net/tetanux/internal/dialer"
)

type Config struct {
	// Dialer opens connections to tunnel targets and origin servers.
	Dialer dialer.Dialer

	// NegotiationTimeout bounds the wait for a client's header block. Zero
	// means no limit.
	NegotiationTimeout time.Duration

	// Verbose enables per-connection logging.
	Verbose bool
}
