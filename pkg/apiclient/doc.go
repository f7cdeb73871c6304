// Package apiclient is the HTTP pipeline between the curbside front-end and
// its REST backend.
//
// A Client sends JSON requests relative to a base URL, bounds every call with
// a timeout and classifies every failure into a small taxonomy:
//
//   - ErrUnreachable: connection refused, DNS failure, timeout
//   - ErrUnauthorized: 401
//   - ErrForbidden: 403
//   - ErrValidation: 400, with field messages in Error.Fields
//   - ErrServerError: 5xx
//   - ErrUnknown: anything else
//
// Concrete failures are *Error values that match their kind via errors.Is:
//
//	var out Profile
//	err := client.Get(ctx, "/auth/me", &out)
//	switch {
//	case errors.Is(err, apiclient.ErrUnreachable):
//	    // show "backend offline"
//	case errors.Is(err, apiclient.ErrValidation):
//	    fields := apiclient.FieldErrors(err)
//	}
//
// Other components hook into the pipeline with interceptors. Request
// interceptors mutate the outgoing *http.Request (the session manager adds the
// bearer token); response interceptors observe each Call and its classified
// error. The client itself never retries.
//
// Config resolves the base URL from the environment: loopback front-end hosts
// talk to the local development backend with a short timeout, everything else
// uses CURBSIDE_API_URL with a long one.
package apiclient
