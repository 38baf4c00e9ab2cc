// Package request parses the leading HTTP/1.x request on a proxy connection
// and decides what the proxy should do with it.
//
// Parse is stateless: it is handed the whole accumulated buffer every time and
// either finds a complete header block, reports ErrIncomplete, or fails. That
// makes the result independent of how the bytes were fragmented on the wire.
// Classify turns a parsed request into a tunnel, forward, or reject decision.
package request
