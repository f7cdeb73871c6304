// Package session owns the client-side authentication state of the curbside
// front-end.
//
// A Manager holds the bearer token and the user it belongs to, persists the
// token through a Store and hooks into an apiclient.Client with two
// interceptors: one attaches the token to every request, the other ends the
// session when the backend answers 401 to an authenticated call. There is no
// token refresh; expiry always ends with a redirect to the login page.
//
//	client, _ := apiclient.NewFromConfig(apiCfg)
//	mgr := session.New(client,
//	    session.WithStore(session.NewFileStore(path)),
//	    session.WithNavigator(nav),
//	)
//	mgr.Restore(ctx)
//
//	if _, err := mgr.Login(ctx, email, password); err != nil {
//	    fmt.Println(session.ErrorMessage(err))
//	}
//
// Every restore, login, register, logout and expiry increments a generation
// counter. Calls that were in flight when the generation moved return
// ErrSuperseded and leave the state alone, so a login answered after a
// logout never resurrects the session.
//
// Store implementations: MemoryStore, FileStore and RedisStore.
package session
