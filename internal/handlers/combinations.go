package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MariamKalashyan/combinations-api/internal/middleware"
	"github.com/MariamKalashyan/combinations-api/internal/models"
	"github.com/MariamKalashyan/combinations-api/internal/service"
	"github.com/MariamKalashyan/combinations-api/internal/store"
)

// CombinationsHandler handles the generation endpoints
type CombinationsHandler struct {
	service *service.CombinationService
	logger  *zap.Logger
}

// NewCombinationsHandler creates a new combinations handler
func NewCombinationsHandler(svc *service.CombinationService, logger *zap.Logger) *CombinationsHandler {
	return &CombinationsHandler{service: svc, logger: logger}
}

// Generate enumerates and stores every combination for the requested group
// sizes and length, responding with the stored identifier and the full list.
func (h *CombinationsHandler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid request body")
		return
	}

	// Shape validation: group sizes are non-negative by contract.
	for _, n := range req.Items {
		if n < 0 {
			middleware.BadRequest(c, "items must contain non-negative integers")
			return
		}
	}

	result, err := h.service.Generate(c.Request.Context(), req.Items, req.Length)
	if err != nil {
		if service.IsValidationError(err) {
			middleware.GenerationsTotal.WithLabelValues("rejected").Inc()
			middleware.BadRequest(c, err.Error())
			return
		}
		middleware.GenerationsTotal.WithLabelValues("failed").Inc()
		h.logger.Error("generation failed", zap.Error(err))
		middleware.DatabaseError(c, "failed to store generated combinations")
		return
	}

	if result.ID == nil {
		middleware.GenerationsTotal.WithLabelValues("empty").Inc()
	} else {
		middleware.GenerationsTotal.WithLabelValues("computed").Inc()
		middleware.CombinationsPerRequest.Observe(float64(len(result.Combinations)))
	}

	c.JSON(http.StatusOK, result)
}

// GetResponse returns a stored generation request with its combination count
func (h *CombinationsHandler) GetResponse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.BadRequest(c, "invalid response id")
		return
	}

	resp, err := h.service.GetResponse(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.NotFound(c, "response not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load response", zap.Int64("id", id), zap.Error(err))
		middleware.DatabaseError(c, "failed to load response")
		return
	}

	c.JSON(http.StatusOK, resp)
}
