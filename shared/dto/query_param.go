package dto

import (
	"jumuia/shared/constant"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string. Invalid numbers
// and directions are ignored. With defaultRequest set, missing paging falls back to the defaults.
// Limits above constant.MaxValueLimit are capped.
//
//	q := dto.QueryParams{}
//	q.FromRequest(req, true)
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	queryParams := r.URL.Query()

	if page, err := strconv.Atoi(queryParams.Get(constant.RequestParamPage)); err == nil && page > 0 {
		q.Page = page
	}

	if limit, err := strconv.Atoi(queryParams.Get(constant.RequestParamLimit)); err == nil && limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := strings.TrimSpace(queryParams.Get(constant.RequestParamSortBy)); sortBy != "" {
		q.SortBy = sortBy
	}

	if sortDir := strings.ToUpper(queryParams.Get(constant.RequestParamSortDir)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}

	if defaultRequest {
		q.Paged()
	}
}

// Paged fills in the default page and limit.
func (q *QueryParams) Paged() {
	if q.Page <= 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit <= 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// SortOn qualifies SortBy with table. A column outside allowed is replaced by fallback, and a
// missing direction by dir. SortBy ends up in ORDER BY verbatim, so it must never skip this.
func (q *QueryParams) SortOn(table, fallback, dir string, allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = fallback
	}

	if q.SortDir == "" {
		q.SortDir = dir
	}

	q.SortBy = table + "." + q.SortBy
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
