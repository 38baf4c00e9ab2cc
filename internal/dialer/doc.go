// Package dialer provides the outbound dialers tetanux uses to reach tunnel
// and forward targets.
//
// A target is reached either directly or through an upstream proxy that
// speaks HTTP CONNECT (optionally over TLS) or SOCKS5.
package dialer
