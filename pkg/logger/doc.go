// Package logger builds *slog.Logger instances for curbside binaries and
// libraries.
//
// New takes functional options selecting the output format (text or json),
// the minimum level, static attributes and ContextExtractor callbacks. The
// returned logger wraps its handler with LogHandlerDecorator, which runs the
// extractors on every record so that values carried by the context (for
// example the X-Request-ID of an outgoing API call) show up in the output.
//
//	log := logger.New(
//	    logger.WithConfig(cfg),
//	    logger.WithService("curbside"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// Libraries that accept an optional logger default to Discard.
//
// Attribute helpers in attr.go (Error, Email, Status, Generation, ...) keep
// key names consistent across packages.
package logger
