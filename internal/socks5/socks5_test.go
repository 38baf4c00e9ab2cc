package socks5

import (
	"errors"
	"fmt"
	"net"
	"testing"

	txsocks5 "github.com/txthinking/socks5"
	"golang.org/x/sync/errgroup"
)

func TestClientDialToServer(t *testing.T) {
	tests := []struct {
		name    string
		address string
		auth    Auth
	}{
		{name: "no_auth", address: "127.0.0.1:80"},
		{name: "user_pass", address: "127.0.0.1:80", auth: Auth{Username: "user", Password: "pass"}},
		{name: "domain", address: "example.com:443"},
		{name: "ipv6", address: "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientConn, serverConn := net.Pipe()
			defer clientConn.Close()
			defer serverConn.Close()

			g := errgroup.Group{}
			g.Go(func() error {
				req, err := ServerHandshake(serverConn, tt.auth)
				if err != nil {
					return err
				}
				if req.Cmd != CmdConnect {
					return fmt.Errorf("unexpected command: %d", req.Cmd)
				}
				if got := req.Address(); got != tt.address {
					return fmt.Errorf("got address %q want %q", got, tt.address)
				}
				return WriteReply(serverConn, txsocks5.RepSuccess, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 12345})
			})

			if err := ClientDial(clientConn, tt.auth, tt.address); err != nil {
				t.Fatal(err)
			}
			if err := g.Wait(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestClientDialRefused(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	g := errgroup.Group{}
	g.Go(func() error {
		if _, err := ServerHandshake(serverConn, Auth{}); err != nil {
			return err
		}
		return WriteReply(serverConn, txsocks5.RepConnectionRefused, nil)
	})

	err := ClientDial(clientConn, Auth{}, "127.0.0.1:1")
	var rerr *ReplyError
	if !errors.As(err, &rerr) || rerr.Rep != txsocks5.RepConnectionRefused {
		t.Fatalf("got %v want connection refused reply", err)
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestClientDialBadPassword(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	g := errgroup.Group{}
	g.Go(func() error {
		_, err := ServerHandshake(serverConn, Auth{Username: "user", Password: "pass"})
		return err
	})

	err := ClientDial(clientConn, Auth{Username: "user", Password: "wrong"}, "127.0.0.1:80")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("client: got %v want ErrAuthFailed", err)
	}
	if err := g.Wait(); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("server: got %v want ErrAuthFailed", err)
	}
}
