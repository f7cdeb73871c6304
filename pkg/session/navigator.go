package session

import "context"

// Navigator performs the redirect side effects of the session manager
// (LoginPath after logout or expiry, LandingPath after login).
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, string) {}
