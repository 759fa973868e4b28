package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"binaryledger/internal/wallet"

	"github.com/gin-gonic/gin"
)

// parsePagination reads page/page_size query params with sane bounds
func parsePagination(c *gin.Context) (page, pageSize, offset int) {
	page = 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	pageSize = 10
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return page, pageSize, (page - 1) * pageSize
}

// paginationBlock builds the standard pagination payload
func paginationBlock(page, pageSize int, total int64) gin.H {
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return gin.H{
		"current_page": page,
		"page_size":    pageSize,
		"total_pages":  totalPages,
		"total_count":  total,
		"has_next":     page < int(totalPages),
		"has_prev":     page > 1,
	}
}

// statusForKind maps ledger error kinds onto HTTP statuses
func statusForKind(kind wallet.Kind) int {
	switch kind {
	case wallet.KindAccountNotFound, wallet.KindPlacementNotFound:
		return http.StatusNotFound
	case wallet.KindAccountFrozen:
		return http.StatusForbidden
	case wallet.KindDuplicateOperation:
		return http.StatusConflict
	case wallet.KindInsufficientBalance, wallet.KindInvalidAmount,
		wallet.KindInvalidAddress, wallet.KindLimitExceeded:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes the error with its mapped status. Ledger errors carry
// their machine-readable code; anything else is an opaque 500.
func respondError(c *gin.Context, err error) {
	var werr *wallet.Error
	if errors.As(err, &werr) {
		c.JSON(statusForKind(werr.Kind), gin.H{
			"error": werr.Message,
			"code":  string(werr.Kind),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
