// Package httpserver runs HTTP handlers with graceful shutdown.
//
// Run listens on the configured address and stops on context cancellation
// or SIGINT/SIGTERM; Serve does the same on a caller-supplied listener,
// which tests use with 127.0.0.1:0. HealthHandler serves a JSON readiness
// probe over named checks.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg, config.WithPrefix("DEVAPI_"))
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
package httpserver
