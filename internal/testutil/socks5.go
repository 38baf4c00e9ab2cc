package testutil

import (
	"io"
	"net"

	txsocks5 "github.com/txthinking/socks5"

	"github.com/die-net/tetanux/internal/socks5"
)

// ServeSOCKS5Connect acts as an upstream SOCKS5 proxy for a single CONNECT
// on c, relaying until either side closes.
func ServeSOCKS5Connect(c net.Conn, auth socks5.Auth) error {
	req, err := socks5.ServerHandshake(c, auth)
	if err != nil {
		return err
	}
	if req.Cmd != socks5.CmdConnect {
		return socks5.WriteReply(c, txsocks5.RepCommandNotSupported, nil)
	}

	dst, err := net.Dial("tcp", req.Address())
	if err != nil {
		return socks5.WriteReply(c, txsocks5.RepConnectionRefused, nil)
	}
	defer dst.Close()

	if err := socks5.WriteReply(c, txsocks5.RepSuccess, dst.LocalAddr()); err != nil {
		return err
	}

	go func() {
		_, _ = io.Copy(dst, c)
		if tc, ok := dst.(*net.TCPConn); ok {
			_ = tc.CloseWrite()
		}
	}()
	_, err = io.Copy(c, dst)
	return err
}
