package upstream

import (
	"net/url"
	"sort"
	"strconv"
)

// Query carries the pagination and filter parameters of a listing request.
type Query struct {
	skip     *int
	limit    int
	hasLimit bool
	filters  map[string]string
}

// Page builds a query sending both skip and limit.
func Page(skip, limit int) Query {
	return Query{skip: &skip, limit: limit, hasLimit: true}
}

// Limit builds a query sending only limit.
func Limit(limit int) Query {
	return Query{limit: limit, hasLimit: true}
}

// NoQuery is used for endpoints that take no parameters.
var NoQuery = Query{}

// Filter returns a copy of q with an extra filter parameter.
func (q Query) Filter(key, value string) Query {
	filters := make(map[string]string, len(q.filters)+1)
	for k, v := range q.filters {
		filters[k] = v
	}
	filters[key] = value
	q.filters = filters
	return q
}

// Validate checks skip >= 0 and limit > 0 for paginated queries.
func (q Query) Validate() error {
	if q.skip != nil && *q.skip < 0 {
		return ErrInvalidQuery
	}
	if q.paginated() && q.limit <= 0 {
		return ErrInvalidQuery
	}
	return nil
}

func (q Query) paginated() bool {
	return q.skip != nil || q.hasLimit
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.skip != nil {
		values.Set("skip", strconv.Itoa(*q.skip))
	}
	if q.hasLimit {
		values.Set("limit", strconv.Itoa(q.limit))
	}

	keys := make([]string, 0, len(q.filters))
	for k := range q.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, q.filters[k])
	}
	return values
}
