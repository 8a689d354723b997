package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/service"
	"stempelwerk/loyalty/pkg/response"
)

type InstanceHandler struct {
	instService service.CardInstanceService
}

func NewInstanceHandler(instService service.CardInstanceService) *InstanceHandler {
	return &InstanceHandler{instService: instService}
}

type CreateInstanceRequest struct {
	DefinitionID string `json:"definition_id" binding:"required,uuid"`
}

func (h *InstanceHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	definitionID, err := uuid.Parse(req.DefinitionID)
	if err != nil {
		response.BadRequest(c, "invalid definition id")
		return
	}

	inst, err := h.instService.Create(c.Request.Context(), userID, definitionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, inst)
}

// List returns the caller's card instances, optionally filtered by the
// redeemed flag (?redeemed=true|false).
func (h *InstanceHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var redeemed *bool
	if raw, ok := c.GetQuery("redeemed"); ok {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "invalid redeemed filter")
			return
		}
		redeemed = &val
	}

	instances, err := h.instService.List(c.Request.Context(), userID, redeemed)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, instances)
}
