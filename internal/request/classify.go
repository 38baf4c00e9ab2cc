package request

import (
	"bytes"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Intent is what the proxy should do with a request.
type Intent int

const (
	Reject Intent = iota
	Tunnel
	Forward
)

func (i Intent) String() string {
	switch i {
	case Reject:
		return "reject"
	case Tunnel:
		return "tunnel"
	case Forward:
		return "forward"
	default:
		return "intent(" + strconv.Itoa(int(i)) + ")"
	}
}

// Endpoint is a resolved host and port.
type Endpoint struct {
	Host string
	Port uint16
}

// String returns the endpoint in dialable host:port form.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// Decision is the result of Classify.
type Decision struct {
	Intent   Intent
	Endpoint Endpoint
	// Request is the rewritten request to send to the origin. Only set for
	// Forward.
	Request []byte
}

// Classify decides what to do with req.
//
// CONNECT requires an explicit host:port and yields Tunnel. GET requires an
// absolute http URI and yields Forward along with the origin-form request to
// send upstream; the port defaults to 80. Any other method yields Reject.
func Classify(req *Request) (Decision, error) {
	switch req.Method {
	case http.MethodConnect:
		ep, err := authorityEndpoint(req.Target)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Intent: Tunnel, Endpoint: ep}, nil
	case http.MethodGet:
		ep, path, err := uriEndpoint(req.Target)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Intent: Forward, Endpoint: ep, Request: rewrite(req, path)}, nil
	default:
		return Decision{Intent: Reject}, nil
	}
}

func authorityEndpoint(target string) (Endpoint, error) {
	host, port, err := net.SplitHostPort(target)
	if err != nil {
		return Endpoint{}, invalidTarget(target, err.Error())
	}
	if host == "" {
		return Endpoint{}, invalidTarget(target, "missing host")
	}
	p, ok := parsePort(port)
	if !ok {
		return Endpoint{}, invalidTarget(target, "invalid port")
	}
	return Endpoint{Host: host, Port: p}, nil
}

// uriEndpoint validates an absolute URI and returns its endpoint and its
// path and query exactly as they appear in target.
func uriEndpoint(target string) (Endpoint, string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return Endpoint{}, "", invalidTarget(target, err.Error())
	}
	if !strings.EqualFold(u.Scheme, "http") {
		return Endpoint{}, "", invalidTarget(target, "scheme must be http")
	}
	if u.Hostname() == "" {
		return Endpoint{}, "", invalidTarget(target, "missing host")
	}

	ep := Endpoint{Host: u.Hostname(), Port: 80}
	if port := u.Port(); port != "" {
		p, ok := parsePort(port)
		if !ok {
			return Endpoint{}, "", invalidTarget(target, "invalid port")
		}
		ep.Port = p
	}

	return ep, originForm(target), nil
}

// originForm strips the scheme and authority from an absolute URI, and any
// fragment, leaving the path and query.
func originForm(target string) string {
	rest := target
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+len("://"):]
	}

	i := strings.IndexAny(rest, "/?")
	switch {
	case i < 0:
		return "/"
	case rest[i] == '?':
		return "/" + rest[i:]
	default:
		return rest[i:]
	}
}

func parsePort(s string) (uint16, bool) {
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil || p == 0 {
		return 0, false
	}
	return uint16(p), true
}

// rewrite renders req in origin form with path as its target. Header lines
// pass through byte-for-byte in order, re-terminated with CRLF; Connection
// is forced to "close" and Accept to "*/*", replaced in place or appended if
// missing.
func rewrite(req *Request, path string) []byte {
	var b bytes.Buffer

	b.WriteString(req.Method)
	b.WriteByte(' ')
	b.WriteString(path)
	b.WriteByte(' ')
	b.WriteString(req.Version)
	b.WriteString("\r\n")

	var sawConnection, sawAccept bool
	for _, h := range req.Headers {
		switch {
		case strings.EqualFold(h.Name, "Connection"):
			writeHeader(&b, h.Name, "close")
			sawConnection = true
		case strings.EqualFold(h.Name, "Accept"):
			writeHeader(&b, h.Name, "*/*")
			sawAccept = true
		default:
			b.WriteString(h.Raw)
			b.WriteString("\r\n")
		}
	}
	if !sawConnection {
		writeHeader(&b, "Connection", "close")
	}
	if !sawAccept {
		writeHeader(&b, "Accept", "*/*")
	}
	b.WriteString("\r\n")

	return b.Bytes()
}

func writeHeader(b *bytes.Buffer, name, value string) {
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\r\n")
}
