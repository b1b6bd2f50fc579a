package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tollgate/internal/models"
	"tollgate/internal/store"
)

// ListEventLogsHandler handles GET /admin/logs
func ListEventLogsHandler(events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := c.Query("action")
		pagination := ParsePaginationParams(c)

		entries, totalCount, err := events.ListEventLogs(c.Request.Context(), action, pagination)
		if err != nil {
			slog.Error("Failed to list event logs", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list event logs"})
			return
		}

		if entries == nil {
			entries = []models.EventLog{}
		}

		c.JSON(http.StatusOK, paginate(entries, totalCount, pagination))
	}
}

// ListRevocationsHandler handles GET /admin/revocations
func ListRevocationsHandler(revocations store.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		pagination := ParsePaginationParams(c)

		records, totalCount, err := revocations.ListRevocations(c.Request.Context(), pagination)
		if err != nil {
			slog.Error("Failed to list revocations", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list revocations"})
			return
		}

		if records == nil {
			records = []models.RevocationRecord{}
		}

		c.JSON(http.StatusOK, paginate(records, totalCount, pagination))
	}
}

func paginate[T any](items []T, totalCount int, p models.PaginationParams) models.PaginatedList[T] {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (totalCount + p.Limit - 1) / p.Limit
	}
	return models.PaginatedList[T]{
		Items:      items,
		TotalCount: totalCount,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}

// ParsePaginationParams extracts page and limit from query parameters
func ParsePaginationParams(c *gin.Context) models.PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 1000 {
		limit = 1000
	}

	return models.PaginationParams{
		Page:  page,
		Limit: limit,
	}
}
