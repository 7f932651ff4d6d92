package utils

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	// MaxPage keeps (page-1)*perPage well inside an int offset.
	MaxPage = 1_000_000
)

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// ParsePaginationParams reads page and per_page, defaulting to 1 and 10 and
// capping per_page at 100. Pages past MaxPage are rejected.
func ParsePaginationParams(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if query.Get("page") != "" {
		parsed, err := strconv.Atoi(query.Get("page"))
		if err != nil || parsed < 1 {
			return 0, 0, NewValidationError("page", "must be a positive integer")
		}
		if parsed > MaxPage {
			return 0, 0, NewValidationError("page", fmt.Sprintf("must be at most %d", MaxPage))
		}
		page = parsed
	}

	perPage := DefaultPerPage
	if query.Get("per_page") != "" {
		parsed, err := strconv.Atoi(query.Get("per_page"))
		if err != nil || parsed < 1 {
			return 0, 0, NewValidationError("per_page", "must be a positive integer")
		}
		perPage = parsed
		if perPage > MaxPerPage {
			perPage = MaxPerPage
		}
	}

	return page, perPage, nil
}

func NewPaginationMeta(page, perPage int, total int64) PaginationMeta {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return PaginationMeta{
		CurrentPage: page,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}
