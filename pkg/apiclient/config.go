package apiclient

import (
	"net"
	"strings"
	"time"
)

// Config resolves the backend base URL and per-call timeout.
//
// On a loopback front-end host the local development backend is used with
// the short timeout. Anywhere else APIURL is used with the long timeout, which
// leaves room for backends that cold-start; when APIURL is empty the local URL
// is used as a fallback.
type Config struct {
	APIURL        string        `env:"CURBSIDE_API_URL"`
	LocalAPIURL   string        `env:"CURBSIDE_LOCAL_API_URL" envDefault:"http://localhost:8080/api"`
	Host          string        `env:"CURBSIDE_HOST" envDefault:"localhost"`
	LocalTimeout  time.Duration `env:"CURBSIDE_LOCAL_TIMEOUT" envDefault:"10s"`
	RemoteTimeout time.Duration `env:"CURBSIDE_REMOTE_TIMEOUT" envDefault:"60s"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		LocalAPIURL:   "http://localhost:8080/api",
		Host:          "localhost",
		LocalTimeout:  10 * time.Second,
		RemoteTimeout: 60 * time.Second,
	}
}

// IsLocal reports whether the front-end runs on a loopback host.
func (c Config) IsLocal() bool {
	return IsLoopbackHost(c.Host)
}

// BaseURL returns the backend base URL for the configured host.
func (c Config) BaseURL() string {
	if c.IsLocal() || c.APIURL == "" {
		return strings.TrimRight(c.LocalAPIURL, "/")
	}
	return strings.TrimRight(c.APIURL, "/")
}

// Timeout returns the per-call timeout for the configured host.
func (c Config) Timeout() time.Duration {
	if c.IsLocal() {
		return c.LocalTimeout
	}
	return c.RemoteTimeout
}

// IsLoopbackHost accepts a bare host or host:port.
func IsLoopbackHost(host string) bool {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
