package config

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort     = 8080
	DefaultListen   = "127.0.0.1"
	DefaultTimeout  = 10 * time.Second
	DefaultUpstream = "direct://"
)

// Config is the process-wide proxy configuration. It is built once at
// startup and passed by value from then on.
type Config struct {
	// Listen is the address the proxy binds to.
	Listen string
	// Port is the TCP port the proxy binds to.
	Port uint16
	// Timeout bounds outbound dials and the wait for a client's header block.
	Timeout time.Duration
	// Upstream is a dialer URL (direct://, http://host:port,
	// https://host:port or socks5://host:port).
	Upstream string
	// Verbose enables per-connection logging.
	Verbose bool
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:   DefaultListen,
		Port:     DefaultPort,
		Timeout:  DefaultTimeout,
		Upstream: DefaultUpstream,
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Listen, strconv.Itoa(int(c.Port)))
}

// Load reads the config file at path. An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads directives from r on top of Default().
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := splitDirective(sc.Text())
		if !ok {
			continue
		}
		cfg.apply(key, value)
	}
	if err := sc.Err(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// splitDirective splits a line at its first run of spaces or tabs.
func splitDirective(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	i := strings.IndexAny(line, " \t")
	if i <= 0 {
		return "", "", false
	}
	return line[:i], strings.TrimSpace(line[i:]), true
}

func (c *Config) apply(key, value string) {
	switch key {
	case "Port":
		p, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			p = DefaultPort
		}
		c.Port = uint16(p)
	case "Listen":
		c.Listen = value
	case "Timeout":
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			c.Timeout = DefaultTimeout
			return
		}
		c.Timeout = time.Duration(secs) * time.Second
	case "Upstream":
		c.Upstream = upstreamURL(value)
	case "LogLevel":
		switch strings.ToLower(value) {
		case "info", "connect":
			c.Verbose = true
		default:
			c.Verbose = false
		}
	}
}

// upstreamURL converts tinyproxy-style "type host:port" into a dialer URL.
// Anything it can't convert is passed through for the dialer to reject.
func upstreamURL(value string) string {
	fields := strings.Fields(value)
	switch {
	case len(fields) == 1 && strings.EqualFold(fields[0], "none"):
		return DefaultUpstream
	case len(fields) == 2:
		return strings.ToLower(fields[0]) + "://" + fields[1]
	default:
		return value
	}
}
