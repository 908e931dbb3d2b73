package infrastructure

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pratoJaEdge/internal/modules/session/port"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/payload"
	"pratoJaEdge/internal/shared/rest"
)

// AuthHTTPClient implements port.AuthAPI against the platform's auth
// endpoints. The upstream issues its session credential as a cookie on login;
// the edge captures it here and replays it through the credential parameter
// on every later call.
type AuthHTTPClient struct {
	rest *rest.Client
}

func NewAuthHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *AuthHTTPClient {
	return &AuthHTTPClient{rest: rest.NewClient(baseURL, timeout, client)}
}

func (c *AuthHTTPClient) Login(ctx context.Context, creds port.Credentials) (*port.LoginOutcome, error) {
	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, "/login", creds)
	if err != nil {
		return nil, err
	}

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Warn("login request failed", slog.Any("error", err))
		return nil, apiresult.NewTransportError(err)
	}
	defer res.Body.Close()

	up, upErr := foldResponse(res)
	if upErr != nil {
		return nil, upErr
	}
	return &port.LoginOutcome{Upstream: up, Credential: sessionCookies(res)}, nil
}

func (c *AuthHTTPClient) Logout(ctx context.Context, credential string) (*apiresult.Upstream, error) {
	return c.roundTrip(ctx, http.MethodPost, "/logout", credential, map[string]any{})
}

func (c *AuthHTTPClient) Profile(ctx context.Context, credential string) (*apiresult.Upstream, error) {
	return c.roundTrip(ctx, http.MethodGet, "/profile", credential, nil)
}

// ValidateToken asks the upstream whether the ambient credential is still
// valid. Any failure counts as invalid; the error is returned so the caller
// can distinguish a dead upstream from a rejected session.
func (c *AuthHTTPClient) ValidateToken(ctx context.Context, credential string) (bool, error) {
	up, err := c.roundTrip(ctx, http.MethodGet, "/validate-token", credential, nil)
	if err != nil {
		return false, err
	}
	valid, _ := up.Body["valid"].(bool)
	return valid, nil
}

func (c *AuthHTTPClient) Register(ctx context.Context, reg port.Registration) (*apiresult.Upstream, error) {
	return c.roundTrip(ctx, http.MethodPost, "/register", "", reg)
}

func (c *AuthHTTPClient) ForgotPassword(ctx context.Context, email string) (*apiresult.Upstream, error) {
	return c.roundTrip(ctx, http.MethodPost, "/forgot-password", "", map[string]string{"email": strings.TrimSpace(email)})
}

func (c *AuthHTTPClient) ValidateResetToken(ctx context.Context, token string) (*apiresult.Upstream, error) {
	return c.roundTrip(ctx, http.MethodPost, "/validate-reset-token", "", map[string]string{"token": strings.TrimSpace(token)})
}

func (c *AuthHTTPClient) ResetPassword(ctx context.Context, token, newPassword string) (*apiresult.Upstream, error) {
	return c.roundTrip(ctx, http.MethodPost, "/reset-password", "", map[string]string{
		"token":    strings.TrimSpace(token),
		"password": newPassword,
	})
}

func (c *AuthHTTPClient) roundTrip(ctx context.Context, method, endpoint, credential string, body any) (*apiresult.Upstream, error) {
	req, err := c.rest.NewJSONRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(credential); trimmed != "" {
		req.Header.Set("Cookie", trimmed)
	}
	up, err := c.rest.DoUpstream(req)
	if err != nil {
		slog.Debug("auth round trip failed", slog.String("endpoint", endpoint), slog.Any("error", err))
		return nil, err
	}
	return up, nil
}

// ProfileUser extracts the identity record from a /profile or /login body,
// which the upstream wraps as {"user": {...}}.
func ProfileUser(up *apiresult.Upstream) map[string]any {
	if up == nil || up.Body == nil {
		return nil
	}
	if user := payload.MapFromEnvelope(up.Body["user"]); user != nil {
		return user
	}
	return payload.MapFromEnvelope(up.Data())
}

func foldResponse(res *http.Response) (*apiresult.Upstream, *apiresult.UpstreamError) {
	var body map[string]any
	if raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20)); err == nil && len(raw) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			body = decoded
		}
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, apiresult.NewUpstreamError(res.StatusCode, body)
	}
	return &apiresult.Upstream{Status: res.StatusCode, Body: body}, nil
}

// sessionCookies flattens the upstream Set-Cookie headers into a Cookie
// header value for replay.
func sessionCookies(res *http.Response) string {
	cookies := res.Cookies()
	if len(cookies) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		if cookie.Name == "" {
			continue
		}
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(pairs, "; ")
}

var _ port.AuthAPI = (*AuthHTTPClient)(nil)
