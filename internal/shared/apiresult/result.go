package apiresult

import (
	"errors"
	"net/http"
	"strings"
)

// Result is the uniform envelope every store action returns to its caller.
// Callers inspect Success instead of handling errors; no action propagates
// a raw upstream failure past this boundary.
type Result struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Status  int       `json:"status"`
	Data    any       `json:"data,omitempty"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

// PageMeta is the read-only pagination projection attached to list results.
type PageMeta struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
	Sort     string `json:"sort,omitempty"`
}

// Normalize maps a successful upstream response into a Result. The upstream
// message wins when present and non-blank; defaultMessage covers the rest.
// A zero status falls back to 200.
func Normalize(up *Upstream, defaultMessage string) Result {
	res := Result{Success: true, Message: strings.TrimSpace(defaultMessage), Status: http.StatusOK}
	if up == nil {
		return res
	}
	if up.Status > 0 {
		res.Status = up.Status
	}
	if msg := validMessage(up.Body["message"]); msg != "" {
		res.Message = msg
	}
	res.Data = up.Data()
	res.Meta = up.PageMeta()
	return res
}

// NormalizeError maps a failed upstream call into a Result. Message resolution
// order: upstream "message" field, upstream "error" field, defaultMessage.
// Transport failures (no response reached the edge) report status 500.
func NormalizeError(err error, defaultMessage string) Result {
	res := Result{Success: false, Message: strings.TrimSpace(defaultMessage), Status: http.StatusInternalServerError}

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		return res
	}
	if upErr.Status > 0 {
		res.Status = upErr.Status
	}
	if msg := validMessage(upErr.Body["message"]); msg != "" {
		res.Message = msg
	} else if msg := validMessage(upErr.Body["error"]); msg != "" {
		res.Message = msg
	}
	if upErr.Body != nil {
		res.Data = upErr.Body["data"]
	}
	return res
}

func validMessage(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
