package redis

import "time"

// Config describes how to reach the redis server that holds shared session tokens.
type Config struct {
	// ConnectionURL has the form "redis://:password@localhost:6379/0". Empty disables redis.
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
	// SessionTTL bounds how long a stored token lives in redis; zero keeps it until logout.
	SessionTTL time.Duration `env:"REDIS_SESSION_TTL" envDefault:"24h"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
