package httputil

import (
	"context"
	"errors"
	"net/url"

	"pratoJaEdge/internal/shared/apiresult"
)

// Navigation targets for globally handled failures.
const (
	LoginPath         = "/login"
	NotAuthorizedPath = "/not-authorized"
	ServerErrorPath   = "/server-error"
	NetworkErrorPath  = "/network-error"
)

// LoginRedirect builds the login target preserving the originally attempted
// path so the client can resume navigation after authenticating.
func LoginRedirect(attempted string) string {
	if attempted == "" || attempted == LoginPath {
		return LoginPath
	}
	return LoginPath + "?to=" + url.QueryEscape(attempted)
}

// RedirectTarget maps an upstream failure to the navigation target mandated
// for it: 401/403 clear the session and land on login with the attempted path
// preserved, 5xx lands on the server-error view, a transport failure (no
// response reached the edge) lands on the network-error view. The second
// return reports whether the error is one of the globally redirected kinds.
func RedirectTarget(err error, attempted string) (string, bool) {
	if err == nil {
		return "", false
	}

	var upErr *apiresult.UpstreamError
	if errors.As(err, &upErr) {
		switch {
		case upErr.Unauthorized():
			return LoginRedirect(attempted), true
		case upErr.ServerFault():
			return ServerErrorPath, true
		case upErr.Transport():
			return NetworkErrorPath, true
		}
		return "", false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NetworkErrorPath, true
	}
	return "", false
}

// SessionEnding reports whether the failure invalidates the session under the
// global interceptor rules (any upstream 401 or 403).
func SessionEnding(err error) bool {
	var upErr *apiresult.UpstreamError
	return errors.As(err, &upErr) && upErr.Unauthorized()
}
