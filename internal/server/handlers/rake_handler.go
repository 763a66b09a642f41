package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/rakelog/internal/auth"
	"github.com/mamadbah2/rakelog/internal/domain/models"
	"github.com/mamadbah2/rakelog/internal/domain/rake"
	"github.com/mamadbah2/rakelog/internal/service/entry"
)

// EntryService validates and submits rake entries.
type EntryService interface {
	Validate(ctx context.Context, req models.RakeEntryRequest, caller auth.Identity) models.EvaluationResponse
	Submit(ctx context.Context, req models.RakeEntryRequest, caller auth.Identity) (models.SubmissionResult, error)
}

// RecentReader serves the recent rows view.
type RecentReader interface {
	RecentRows(ctx context.Context, date string, limit int) (models.RecentRowsResponse, error)
}

// RakeHandler exposes the rake entry endpoints.
type RakeHandler struct {
	entries     EntryService
	recent      RecentReader
	recentLimit int
	logger      *zap.Logger
	now         func() time.Time
}

// NewRakeHandler constructs the HTTP handler adapter.
func NewRakeHandler(entries EntryService, recent RecentReader, recentLimit int, logger *zap.Logger) *RakeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &RakeHandler{entries: entries, recent: recent, recentLimit: recentLimit, logger: logger, now: time.Now}
}

// Validate is a dry run returning computed values and every field error.
func (h *RakeHandler) Validate(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	identity, _ := auth.IdentityFrom(c)

	c.JSON(http.StatusOK, h.entries.Validate(c.Request.Context(), req, identity))
}

// Submit validates the entry and posts it to the spreadsheet.
func (h *RakeHandler) Submit(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	identity, _ := auth.IdentityFrom(c)

	result, err := h.entries.Submit(c.Request.Context(), req, identity)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, result)
	case errors.Is(err, entry.ErrRejected):
		c.JSON(http.StatusUnprocessableEntity, result.Evaluation)
	case errors.Is(err, rake.ErrTransport):
		h.logger.Error("rake submission failed", zap.String("rake_no", req.RakeNo), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "spreadsheet submission failed",
			"kind":  rake.KindTransport,
		})
	default:
		h.logger.Error("unexpected submission error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Recent returns the last rows recorded for a date, today by default.
func (h *RakeHandler) Recent(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = h.now().In(rake.IST).Format(rake.DateLayout)
	} else if _, err := time.ParseInLocation(rake.DateLayout, date, rake.IST); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be DD.MM.YYYY"})
		return
	}

	limit := h.recentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	resp, err := h.recent.RecentRows(c.Request.Context(), date, limit)
	if err != nil {
		h.logger.Error("failed to read recent rows", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to read spreadsheet"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RakeHandler) bind(c *gin.Context) (models.RakeEntryRequest, bool) {
	var req models.RakeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rake payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return req, false
	}
	return req, true
}
