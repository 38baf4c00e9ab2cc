package dialer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	txsocks5 "github.com/txthinking/socks5"

	"github.com/die-net/tetanux/internal/socks5"
	"github.com/die-net/tetanux/internal/testutil"
)

func TestSOCKS5ProxyDialerDialSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user string
		pass string
	}{
		{name: "no_auth"},
		{name: "user_pass", user: "user", pass: "pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			echoLn := testutil.StartEchoTCPServer(t, ctx)

			upLn, waitUp := testutil.StartSingleAcceptServer(t, ctx, func(c net.Conn) {
				_ = testutil.ServeSOCKS5Connect(c, socks5.Auth{Username: tt.user, Password: tt.pass})
			})

			f := NewSOCKS5ProxyDialer(Config{DialTimeout: 2 * time.Second, NegotiationTimeout: 2 * time.Second}, upLn.Addr().String(), tt.user, tt.pass)

			conn, err := f.DialContext(ctx, "tcp", echoLn.Addr().String())
			if err != nil {
				t.Fatal(err)
			}

			testutil.AssertEcho(t, conn, conn, []byte("hello"))
			_ = conn.Close()

			waitUp()
		})
	}
}

func TestSOCKS5ProxyDialerDialContextCancel(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	upLn, _ := testutil.StartSingleAcceptServer(t, context.Background(), func(c net.Conn) {
		<-release
	})
	defer close(release)

	f := NewSOCKS5ProxyDialer(Config{DialTimeout: 2 * time.Second}, upLn.Addr().String(), "", "")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := f.DialContext(ctx, "tcp", "127.0.0.1:1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v want context.DeadlineExceeded", err)
	}
}

func TestSOCKS5ProxyDialerDialFail(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	upLn, waitUp := testutil.StartSingleAcceptServer(t, ctx, func(c net.Conn) {
		if _, err := socks5.ServerHandshake(c, socks5.Auth{}); err != nil {
			return
		}
		_ = socks5.WriteReply(c, txsocks5.RepConnectionRefused, nil)
	})

	f := NewSOCKS5ProxyDialer(Config{DialTimeout: 2 * time.Second}, upLn.Addr().String(), "", "")

	_, err := f.DialContext(ctx, "tcp", "127.0.0.1:1")
	var rerr *socks5.ReplyError
	if !errors.As(err, &rerr) {
		t.Fatalf("got %v want *socks5.ReplyError", err)
	}

	waitUp()
}
