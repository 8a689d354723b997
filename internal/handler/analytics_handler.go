package handler

import (
	"github.com/gin-gonic/gin"

	"stempelwerk/loyalty/internal/service"
	"stempelwerk/loyalty/pkg/response"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// DefinitionTotals returns the collected point total per card of the caller's
// company.
func (h *AnalyticsHandler) DefinitionTotals(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	totals, err := h.analyticsService.DefinitionTotals(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, totals)
}
