package client

import (
	"net/url"
	"strconv"
	"strings"
)

// Query describes one list request: paging, sorting, free-text search and
// resource-specific exact filters.
type Query struct {
	Page   int
	Limit  int
	Sort   string // field name, leading "-" for descending
	Search string
	// Filters are extra key/value params, e.g. {"status": "open"}.
	Filters map[string]string
}

// Values encodes the descriptor as URL parameters. Search is omitted
// entirely when blank so the server never filters on an empty term.
func (q Query) Values() url.Values {
	v := url.Values{}

	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))

	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	v.Set("limit", strconv.Itoa(limit))

	if sort := strings.TrimSpace(q.Sort); sort != "" {
		v.Set("sort", sort)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		v.Set("search", search)
	}
	for k, val := range q.Filters {
		if strings.TrimSpace(val) != "" {
			v.Set(k, val)
		}
	}
	return v
}

// TotalPages derives the page count from a total; never below 1 so the
// pager always has a page to stand on.
func TotalPages(count, limit int) int {
	if limit < 1 {
		return 1
	}
	pages := (count + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}
