// Package socks5 holds the SOCKS5 handshakes tetanux needs to chain through
// an upstream SOCKS5 proxy.
//
// It is a thin layer over the wire types in github.com/txthinking/socks5.
// The client side (ClientDial) is used by the upstream dialer; the server
// side stands in for an upstream proxy in tests.
package socks5
