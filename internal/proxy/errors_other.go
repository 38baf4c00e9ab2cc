//go:build !unix && !windows

package proxy

// Platforms without a usable errno table report every failure as a plain
// error and never back off on accept.

func isPeerReset(error) bool {
	return false
}

func isAcceptExhausted(error) bool {
	return false
}
