package httpserver

import "errors"

var (
	// ErrStart indicates that the server failed to start.
	ErrStart = errors.New("httpserver.start")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("httpserver.shutdown")
	// ErrAlreadyRunning is returned by a second Run or Serve call.
	ErrAlreadyRunning = errors.New("httpserver.already_running")
)
