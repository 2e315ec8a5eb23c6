package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params represents page-based pagination parameters.
type Params struct {
	Page     int // 1-based page number
	PageSize int // Items per page
}

// ParseQueryParams parses the page and pageSize query parameters.
// Missing values take defaults, pageSize above config.MaxPageSize is clamped,
// and values that are not positive integers are rejected.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:     config.DefaultPage,
		PageSize: config.DefaultPageSize,
	}

	query := r.URL.Query()

	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if sizeStr := query.Get("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return params, fmt.Errorf("invalid query parameter: pageSize must be a positive integer")
		}
		params.PageSize = size
	}

	return params.WithDefaults(config), nil
}
