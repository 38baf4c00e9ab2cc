package socks5

import (
	"errors"
	"fmt"

	txsocks5 "github.com/txthinking/socks5"
)

// CmdConnect is the SOCKS5 CONNECT command value.
const CmdConnect = txsocks5.CmdConnect

var (
	ErrAuthFailed          = errors.New("socks5: authentication failed")
	ErrNoAcceptableMethods = errors.New("socks5: no acceptable authentication method")
)

// Auth configures optional username/password authentication.
type Auth struct {
	Username string
	Password string
}

// ReplyError is a non-success reply to a CONNECT request.
type ReplyError struct {
	Rep byte
}

func (e *ReplyError) Error() string {
	switch e.Rep {
	case txsocks5.RepServerFailure:
		return "socks5: general server failure"
	case txsocks5.RepNotAllowed:
		return "socks5: connection not allowed by ruleset"
	case txsocks5.RepNetworkUnreachable:
		return "socks5: network unreachable"
	case txsocks5.RepHostUnreachable:
		return "socks5: host unreachable"
	case txsocks5.RepConnectionRefused:
		return "socks5: connection refused"
	case txsocks5.RepTTLExpired:
		return "socks5: TTL expired"
	case txsocks5.RepCommandNotSupported:
		return "socks5: command not supported"
	case txsocks5.RepAddressNotSupported:
		return "socks5: address type not supported"
	default:
		return fmt.Sprintf("socks5: reply code %#x", e.Rep)
	}
}
