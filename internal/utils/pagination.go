package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationMeta describes one page of a listing
type PaginationMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
	HasNext  bool  `json:"has_next"`
}

// CalculatePagination derives page count and continuation from a total row count
func CalculatePagination(total int64, page, pageSize int) PaginationMeta {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return PaginationMeta{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
		HasNext:  page < pages,
	}
}

// QueryInt reads an optional integer query parameter. ok is false when the
// parameter is absent; a present but malformed value is an error.
func QueryInt(c *gin.Context, key string) (value int, ok bool, err error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}

	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("query parameter '%s' must be an integer", key)
	}
	return value, true, nil
}

// IntToString converts an integer to string
func IntToString(i int) string {
	return strconv.Itoa(i)
}
