// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows returned by list endpoints.
const PageSize = 50

// MaxPageSize caps the client-supplied limit.
const MaxPageSize = 200

// Page holds the decoded limit/offset for a list request.
type Page struct {
	Limit  int64
	Offset int64
}

// Parse extracts "limit" and "offset" query parameters, applying the
// default and cap. Invalid or missing values fall back to defaults.
func Parse(r *http.Request) Page {
	p := Page{Limit: PageSize}

	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			if n > MaxPageSize {
				n = MaxPageSize
			}
			p.Limit = n
		}
	}
	if s := query.Get(r, "offset"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			p.Offset = n
		}
	}
	return p
}

// HasMore reports whether a page fetched with limit+1 look-ahead has a
// following page, and trims the extra row in place.
func HasMore[T any](rows *[]T, limit int64) bool {
	if int64(len(*rows)) > limit {
		*rows = (*rows)[:limit]
		return true
	}
	return false
}

// LimitPlusOne returns the look-ahead fetch limit for HasMore.
func (p Page) LimitPlusOne() int64 { return p.Limit + 1 }
