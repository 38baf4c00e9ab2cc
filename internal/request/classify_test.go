package request

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, raw string) *Request {
	t.Helper()

	req, _, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return req
}

func TestClassifyConnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target string
		want   Endpoint
	}{
		{"example.com:443", Endpoint{Host: "example.com", Port: 443}},
		{"127.0.0.1:8443", Endpoint{Host: "127.0.0.1", Port: 8443}},
		{"[::1]:22", Endpoint{Host: "::1", Port: 22}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			d, err := Classify(mustParse(t, "CONNECT "+tt.target+" HTTP/1.1\r\n\r\n"))
			if err != nil {
				t.Fatal(err)
			}
			if d.Intent != Tunnel {
				t.Fatalf("got intent %v want %v", d.Intent, Tunnel)
			}
			if d.Endpoint != tt.want {
				t.Fatalf("got endpoint %+v want %+v", d.Endpoint, tt.want)
			}
			if d.Request != nil {
				t.Fatalf("unexpected rewritten request %q", d.Request)
			}
		})
	}
}

func TestClassifyInvalidTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"connect missing port", "CONNECT example.com HTTP/1.1\r\n\r\n"},
		{"connect empty port", "CONNECT example.com: HTTP/1.1\r\n\r\n"},
		{"connect zero port", "CONNECT example.com:0 HTTP/1.1\r\n\r\n"},
		{"connect port out of range", "CONNECT example.com:65536 HTTP/1.1\r\n\r\n"},
		{"connect missing host", "CONNECT :443 HTTP/1.1\r\n\r\n"},
		{"connect absolute uri", "CONNECT http://example.com:443/ HTTP/1.1\r\n\r\n"},
		{"get origin form", "GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"},
		{"get missing host", "GET http:///index.html HTTP/1.1\r\n\r\n"},
		{"get https scheme", "GET https://example.com/ HTTP/1.1\r\n\r\n"},
		{"get bad port", "GET http://example.com:99999/ HTTP/1.1\r\n\r\n"},
		{"get authority only", "GET example.com:80 HTTP/1.1\r\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Classify(mustParse(t, tt.raw))
			if !errors.Is(err, ErrInvalidTarget) {
				t.Fatalf("got %v want ErrInvalidTarget", err)
			}
		})
	}
}

func TestClassifyReject(t *testing.T) {
	t.Parallel()

	for _, method := range []string{"POST", "PUT", "DELETE", "HEAD", "OPTIONS", "PATCH", "TRACE", "get", "connect", "BREW"} {
		d, err := Classify(mustParse(t, method+" http://example.com/ HTTP/1.1\r\n\r\n"))
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if d.Intent != Reject {
			t.Fatalf("%s: got intent %v want %v", method, d.Intent, Reject)
		}
	}
}

func TestClassifyForward(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		endpoint Endpoint
		want     string
	}{
		{
			name:     "path and query",
			raw:      "GET http://example.com/a/b?c=d&e HTTP/1.1\r\nHost: example.com\r\nUser-Agent: test\r\n\r\n",
			endpoint: Endpoint{Host: "example.com", Port: 80},
			want:     "GET /a/b?c=d&e HTTP/1.1\r\nHost: example.com\r\nUser-Agent: test\r\nConnection: close\r\nAccept: */*\r\n\r\n",
		},
		{
			name:     "explicit port and no path",
			raw:      "GET http://127.0.0.1:8081 HTTP/1.1\r\n\r\n",
			endpoint: Endpoint{Host: "127.0.0.1", Port: 8081},
			want:     "GET / HTTP/1.1\r\nConnection: close\r\nAccept: */*\r\n\r\n",
		},
		{
			name:     "query without path",
			raw:      "GET http://example.com?q=1 HTTP/1.1\r\n\r\n",
			endpoint: Endpoint{Host: "example.com", Port: 80},
			want:     "GET /?q=1 HTTP/1.1\r\nConnection: close\r\nAccept: */*\r\n\r\n",
		},
		{
			name:     "fragment dropped and escapes kept",
			raw:      "GET http://example.com/a%20b/%7Euser?x=%2F#frag HTTP/1.1\r\n\r\n",
			endpoint: Endpoint{Host: "example.com", Port: 80},
			want:     "GET /a%20b/%7Euser?x=%2F HTTP/1.1\r\nConnection: close\r\nAccept: */*\r\n\r\n",
		},
		{
			name:     "connection and accept replaced in place",
			raw:      "GET http://example.com/ HTTP/1.1\r\nConnection: keep-alive\r\nHost: other.example\r\nAccept: text/html\r\nX-Dup: 1\r\nX-Dup: 2\r\n\r\n",
			endpoint: Endpoint{Host: "example.com", Port: 80},
			want:     "GET / HTTP/1.1\r\nConnection: close\r\nHost: other.example\r\nAccept: */*\r\nX-Dup: 1\r\nX-Dup: 2\r\n\r\n",
		},
		{
			name:     "version kept",
			raw:      "GET http://[::1]:8080/x HTTP/1.0\r\nproxy-connection: keep-alive\r\n\r\n",
			endpoint: Endpoint{Host: "::1", Port: 8080},
			want:     "GET /x HTTP/1.0\r\nproxy-connection: keep-alive\r\nConnection: close\r\nAccept: */*\r\n\r\n",
		},
		{
			name:     "header bytes kept verbatim",
			raw:      "GET http://example.com/ HTTP/1.1\r\nX-A:v\r\nX-B:  padded\t \r\nhost:example.com\nconnection:keep-alive\r\n\r\n",
			endpoint: Endpoint{Host: "example.com", Port: 80},
			want:     "GET / HTTP/1.1\r\nX-A:v\r\nX-B:  padded\t \r\nhost:example.com\r\nconnection: close\r\nAccept: */*\r\n\r\n",
		},
		{
			name:     "uppercase scheme",
			raw:      "GET HTTP://example.com/ HTTP/1.1\r\n\r\n",
			endpoint: Endpoint{Host: "example.com", Port: 80},
			want:     "GET / HTTP/1.1\r\nConnection: close\r\nAccept: */*\r\n\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Classify(mustParse(t, tt.raw))
			if err != nil {
				t.Fatal(err)
			}
			if d.Intent != Forward {
				t.Fatalf("got intent %v want %v", d.Intent, Forward)
			}
			if d.Endpoint != tt.endpoint {
				t.Fatalf("got endpoint %+v want %+v", d.Endpoint, tt.endpoint)
			}
			if string(d.Request) != tt.want {
				t.Fatalf("got request\n%q\nwant\n%q", d.Request, tt.want)
			}
		})
	}
}

func TestEndpointString(t *testing.T) {
	t.Parallel()

	if got, want := (Endpoint{Host: "::1", Port: 443}).String(), "[::1]:443"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got, want := (Endpoint{Host: "example.com", Port: 80}).String(), "example.com:80"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
