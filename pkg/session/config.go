package session

// Backend endpoints used by the manager, relative to the API base URL.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathMe       = "/auth/me"
	PathProfile  = "/auth/profile"
)

// Config holds session manager configuration
type Config struct {
	// TokenKey is the storage key of the persisted token (default: "token")
	TokenKey string `env:"SESSION_TOKEN_KEY" envDefault:"token"`

	// LoginPath is where the user is sent after logout or expiry
	LoginPath string `env:"SESSION_LOGIN_PATH" envDefault:"/login"`

	// LandingPath is where the user is sent after login or register
	LandingPath string `env:"SESSION_LANDING_PATH" envDefault:"/dashboard"`

	// EventBuffer is the per-subscriber event channel size
	EventBuffer int `env:"SESSION_EVENT_BUFFER" envDefault:"16"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TokenKey:    "token",
		LoginPath:   "/login",
		LandingPath: "/dashboard",
		EventBuffer: 16,
	}
}

// withDefaults fills zero fields so a partially populated Config stays usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TokenKey == "" {
		c.TokenKey = d.TokenKey
	}
	if c.LoginPath == "" {
		c.LoginPath = d.LoginPath
	}
	if c.LandingPath == "" {
		c.LandingPath = d.LandingPath
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = d.EventBuffer
	}
	return c
}
