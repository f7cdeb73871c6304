// Package jwt wraps github.com/golang-jwt/jwt/v5 for the two sides of the
// curbside auth flow.
//
// Client side, Decode reads the registered claims of a bearer token without
// verifying it, so the session manager can refuse to adopt an expired token
// before spending a network call:
//
//	claims, err := jwt.Decode(stored)
//	if err != nil || claims.Expired(time.Now()) {
//	    // purge
//	}
//
// Server side (the development backend), Service issues HS256 tokens and
// Middleware verifies them, exposing the claims through GetClaims.
//
//	svc, _ := jwt.New([]byte(secret), jwt.WithTTL(24*time.Hour))
//	token, _ := svc.Issue(user.Email)
//	r.With(jwt.Middleware(svc)).Get("/auth/me", me)
package jwt
