package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centrex-inc/centrex/internal/shared/constants"
)

// ValidatePagination normalizes page and pageSize to safe bounds.
func ValidatePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = constants.DefaultPage
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

// ParsePagination extracts and validates pagination parameters from the request query.
func ParsePagination(c *gin.Context) (int, int) {
	page := parseQueryInt(c, "page", constants.DefaultPage)
	pageSize := parseQueryInt(c, "page_size", constants.DefaultPageSize)
	return ValidatePagination(page, pageSize)
}

func parseQueryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// Offset converts a page/pageSize pair into a SQL offset.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
