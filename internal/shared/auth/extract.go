package auth

import (
	"net/http"
	"strings"
)

// ExtractSessionToken pulls the signed session value from a request, trying
// the session cookie first and falling back to a bearer Authorization header
// for non-browser callers.
func ExtractSessionToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}
	return ExtractBearerTokenFromHeader(r.Header.Get("Authorization"))
}

// ExtractBearerTokenFromHeader strips the "Bearer " prefix from an
// Authorization header value, returning "" when no token is present.
func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const prefix = "bearer "
	if strings.HasPrefix(strings.ToLower(header), prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
