package socks5

import (
	"fmt"
	"net"
	"slices"

	txsocks5 "github.com/txthinking/socks5"
)

// ServerHandshake runs the server side of negotiation on conn and reads the
// client's request. Username/password is required when auth.Username is set.
func ServerHandshake(conn net.Conn, auth Auth) (*txsocks5.Request, error) {
	neg, err := txsocks5.NewNegotiationRequestFrom(conn)
	if err != nil {
		return nil, fmt.Errorf("socks5 negotiation read: %w", err)
	}

	method := byte(txsocks5.MethodNone)
	if auth.Username != "" {
		method = txsocks5.MethodUsernamePassword
	}
	if !slices.Contains(neg.Methods, method) {
		// RFC 1928: 0xFF means no acceptable methods.
		_, _ = txsocks5.NewNegotiationReply(0xff).WriteTo(conn)
		return nil, ErrNoAcceptableMethods
	}
	if _, err := txsocks5.NewNegotiationReply(method).WriteTo(conn); err != nil {
		return nil, fmt.Errorf("socks5 negotiation write: %w", err)
	}

	if method == txsocks5.MethodUsernamePassword {
		urq, err := txsocks5.NewUserPassNegotiationRequestFrom(conn)
		if err != nil {
			return nil, fmt.Errorf("socks5 userpass read: %w", err)
		}
		if string(urq.Uname) != auth.Username || string(urq.Passwd) != auth.Password {
			_, _ = txsocks5.NewUserPassNegotiationReply(txsocks5.UserPassStatusFailure).WriteTo(conn)
			return nil, ErrAuthFailed
		}
		if _, err := txsocks5.NewUserPassNegotiationReply(txsocks5.UserPassStatusSuccess).WriteTo(conn); err != nil {
			return nil, fmt.Errorf("socks5 userpass write: %w", err)
		}
	}

	req, err := txsocks5.NewRequestFrom(conn)
	if err != nil {
		return nil, fmt.Errorf("socks5 request read: %w", err)
	}
	return req, nil
}

// WriteReply answers a request with rep. bound is the address reported to
// the client; a nil bound reports 0.0.0.0:0.
func WriteReply(conn net.Conn, rep byte, bound net.Addr) error {
	r := txsocks5.NewReply(rep, txsocks5.ATYPIPv4, []byte{0, 0, 0, 0}, []byte{0, 0})
	if bound != nil {
		atyp, addr, port, err := txsocks5.ParseAddress(bound.String())
		if err != nil {
			return fmt.Errorf("socks5 bound address %q: %w", bound, err)
		}
		if atyp == txsocks5.ATYPDomain {
			addr = addr[1:]
		}
		r = txsocks5.NewReply(rep, atyp, addr, port)
	}

	if _, err := r.WriteTo(conn); err != nil {
		return fmt.Errorf("socks5 reply write: %w", err)
	}
	return nil
}
