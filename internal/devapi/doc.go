// Package devapi is a development backend for the curbside front-end.
//
// It serves the auth contract the session manager consumes (login, register,
// me, profile) from an in-memory account directory, issuing HS256 tokens.
// Nothing is persisted; restarting the process drops every account.
package devapi
