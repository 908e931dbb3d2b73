package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// PageRequest carries the paging and sorting preferences for list reads.
type PageRequest struct {
	Page      int
	PageSize  int
	Sort      string
	SortOrder string
}

// Normalize returns a sanitized copy applying defaults and bounds.
func (p PageRequest) Normalize() PageRequest {
	normalized := p
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	if normalized.PageSize <= 0 {
		normalized.PageSize = 20
	}
	if normalized.PageSize > 100 {
		normalized.PageSize = 100
	}
	normalized.Sort = strings.TrimSpace(normalized.Sort)
	normalized.SortOrder = strings.ToUpper(strings.TrimSpace(normalized.SortOrder))
	return normalized
}

// Query returns normalized URL parameters ready for upstream calls.
func (p PageRequest) Query() url.Values {
	normalized := p.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.Page))
	values.Set("pageSize", strconv.Itoa(normalized.PageSize))
	if normalized.Sort != "" {
		values.Set("sort", normalized.Sort)
	}
	if normalized.SortOrder != "" {
		values.Set("sortOrder", normalized.SortOrder)
	}
	return values
}
