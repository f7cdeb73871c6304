// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv (optional .env files) with
// github.com/caarlos0/env/v11 (struct tag parsing). Every component in this
// module describes its settings as a struct with `env` and `envDefault` tags;
// Load fills such a struct and caches it per type so repeated lookups from
// different packages agree on the same values.
//
//	var cfg apiclient.Config
//	config.MustLoad(&cfg)
//
// WithEnvFiles loads extra .env files, WithPrefix namespaces the variables of
// a struct. Reset clears the cache and exists for tests.
package config
