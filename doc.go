// Package curbside is the Go client runtime of the curbside parking-spot
// front-end. The business logic lives in a remote REST backend; this module
// owns who is logged in and how requests reach that backend.
//
// Packages:
//
//   - pkg/session: session manager (restore, login, register, logout,
//     profile updates), token stores and session events
//   - pkg/apiclient: JSON client with request and response interceptors and
//     a classified error model
//   - pkg/jwt: token claim decoding, plus HS256 issuing for the dev backend
//   - pkg/config, pkg/logger, pkg/requestid, pkg/redis, pkg/httpserver:
//     environment config, slog logging, request ids, redis connection and
//     graceful HTTP serving
//
// Binaries:
//
//   - cmd/curbside: terminal client (login, register, whoami, profile, logout)
//   - cmd/devapi: in-memory development backend implementing the auth API
//
// Typical wiring:
//
//	var apiCfg apiclient.Config
//	config.MustLoad(&apiCfg)
//	client, err := apiclient.NewFromConfig(apiCfg)
//	if err != nil {
//	    return err
//	}
//	mgr := session.New(client, session.WithStore(session.NewFileStore(path)))
//	mgr.Restore(ctx)
package curbside
