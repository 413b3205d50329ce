package search

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 4
)

// Window is the (page, limit) slice of a result set requested by a caller.
type Window struct {
	Page  int
	Limit int
}

type PageInfo struct {
	TotalResults int64 `json:"totalResults"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	Limit        int   `json:"limit"`
}

// ParsePagination reads page and limit from query parameters, falling back
// to the defaults on missing, non-numeric, or non-positive values.
func ParsePagination(q url.Values) Window {
	return Window{
		Page:  positiveIntOrDefault(q.Get("page"), DefaultPage),
		Limit: positiveIntOrDefault(q.Get("limit"), DefaultLimit),
	}
}

func (w Window) Skip() int64 {
	return int64(w.Page-1) * int64(w.Limit)
}

// PageInfo computes the page metadata for a filtered total. A request past
// the last page keeps its metadata accurate; the record set is simply empty.
func (w Window) PageInfo(totalResults int64) PageInfo {
	var totalPages int64
	if totalResults > 0 {
		totalPages = (totalResults + int64(w.Limit) - 1) / int64(w.Limit)
	}

	return PageInfo{
		TotalResults: totalResults,
		TotalPages:   totalPages,
		CurrentPage:  w.Page,
		Limit:        w.Limit,
	}
}

func positiveIntOrDefault(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
