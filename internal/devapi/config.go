package devapi

import "time"

// Config holds development backend settings, loaded with the DEVAPI_ prefix.
type Config struct {
	SigningKey     string        `env:"SIGNING_KEY" envDefault:"curbside-dev-signing-key"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	// BcryptCost is lowered in tests.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

func DefaultConfig() Config {
	return Config{
		SigningKey:     "curbside-dev-signing-key",
		TokenTTL:       24 * time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
		BcryptCost:     10,
	}
}
