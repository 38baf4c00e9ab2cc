// Package proxy implements the tetanux forward proxy.
//
// Server accepts client connections and runs one lifecycle per connection:
// read and classify the leading request, then either tunnel (CONNECT),
// forward (GET), or reject it. Both tunnel and forward move bytes with
// Relay, which copies one direction in bounded chunks and propagates EOF as a
// half-close.
package proxy
