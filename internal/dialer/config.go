package dialer

import (
	"net"
	"time"
)

type Config struct {
	// DialTimeout bounds the TCP connect to the target or upstream proxy.
	DialTimeout time.Duration
	// NegotiationTimeout bounds the TLS and proxy handshakes that follow.
	NegotiationTimeout time.Duration
	KeepAlive          net.KeepAliveConfig
}
