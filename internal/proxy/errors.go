package proxy

import "errors"

// ErrUpstreamConnect wraps failures to reach a tunnel target or origin
// server. It only ever ends the connection that hit it.
var ErrUpstreamConnect = errors.New("upstream connect failed")

// relayOutcome names how a relay direction ended, for logging.
func relayOutcome(err error) string {
	switch {
	case err == nil:
		return "eof"
	case isPeerReset(err):
		return "reset"
	default:
		return "error"
	}
}
