package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params is a limit/offset window.
type Params struct {
	Limit  int
	Offset int
}

// ParseQueryParams reads limit and offset from the query string. A 1-based
// page parameter is accepted as an alternative to offset.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	q := r.URL.Query()
	params := Params{Limit: config.DefaultLimit}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > config.MaxLimit {
			return params, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", config.MaxLimit)
		}
		params.Limit = limit
	}

	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("invalid query parameter: offset must be a non-negative integer")
		}
		params.Offset = offset
	} else if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Offset = (page - 1) * params.Limit
	}

	return params, nil
}
