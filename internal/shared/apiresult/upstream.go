package apiresult

import (
	"fmt"
	"net/http"

	"pratoJaEdge/internal/shared/payload"
)

// Upstream is a decoded upstream response: the HTTP status plus the JSON body
// as a generic map. Endpoints that wrap their payload in {"data": ...} and the
// ones that return the record directly both flow through here.
type Upstream struct {
	Status int
	Body   map[string]any
}

// Data unwraps the conventional {"data": ...} envelope when present, otherwise
// returns the raw body.
func (u *Upstream) Data() any {
	if u == nil || u.Body == nil {
		return nil
	}
	if data, ok := u.Body["data"]; ok {
		return data
	}
	return u.Body
}

// DataMap returns the payload as a map when it is one.
func (u *Upstream) DataMap() map[string]any {
	if u == nil {
		return nil
	}
	return payload.MapFromEnvelope(u.Body)
}

// Items returns the payload as a slice for list responses, looking through the
// common "data" and "items" wrappers.
func (u *Upstream) Items() []any {
	if u == nil || u.Body == nil {
		return nil
	}
	for _, key := range []string{"data", "items", "content"} {
		if items := payload.AsSlice(u.Body[key]); items != nil {
			return items
		}
	}
	return nil
}

// PageMeta extracts pagination metadata from the upstream body when the
// endpoint is paginated, nil otherwise.
func (u *Upstream) PageMeta() *PageMeta {
	if u == nil {
		return nil
	}
	meta := payload.MapFromEnvelope(u.Body["meta"])
	if meta == nil {
		meta = payload.MapFromEnvelope(u.Body["pagination"])
	}
	if meta == nil {
		return nil
	}
	return &PageMeta{
		Page:     payload.AsInt(meta["page"]),
		PageSize: payload.AsInt(firstPresent(meta, "pageSize", "limit")),
		Total:    payload.AsInt(meta["total"]),
		Sort:     payload.AsString(meta["sort"]),
	}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return nil
}

// UpstreamError carries a failed upstream round trip. Status 0 means the
// request never produced a response (transport failure); anything else is the
// upstream HTTP status with whatever body it sent.
type UpstreamError struct {
	Status int
	Body   map[string]any
	cause  error
}

func NewUpstreamError(status int, body map[string]any) *UpstreamError {
	return &UpstreamError{Status: status, Body: body}
}

// NewTransportError wraps a failure where no upstream response was received.
func NewTransportError(cause error) *UpstreamError {
	return &UpstreamError{cause: cause}
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		if e.cause != nil {
			return fmt.Sprintf("upstream unreachable: %v", e.cause)
		}
		return "upstream unreachable"
	}
	return fmt.Sprintf("upstream responded %d", e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.cause }

// Unauthorized reports the 401/403 family handled globally by the session
// interceptor rules.
func (e *UpstreamError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// ServerFault reports an upstream 5xx response.
func (e *UpstreamError) ServerFault() bool { return e.Status >= http.StatusInternalServerError }

// Transport reports that the request never reached the upstream.
func (e *UpstreamError) Transport() bool { return e.Status == 0 }
