package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/service"
	"stempelwerk/loyalty/pkg/response"
)

type CardHandler struct {
	defService   service.CardDefinitionService
	levelService service.LevelService
}

func NewCardHandler(defService service.CardDefinitionService, levelService service.LevelService) *CardHandler {
	return &CardHandler{defService: defService, levelService: levelService}
}

type CreateDefinitionRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"required,min=1,max=20"`
	Discount    int    `json:"discount" binding:"required"`
}

func (h *CardHandler) CreateDefinition(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req CreateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	def, err := h.defService.Create(c.Request.Context(), userID, service.CreateDefinitionInput{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Discount:    model.Discount(req.Discount),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, def)
}

func (h *CardHandler) ListDefinitions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	defs, err := h.defService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, defs)
}

func (h *CardHandler) GetDefinition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid definition id")
		return
	}

	def, err := h.defService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, def)
}

type UpdateDefinitionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Discount    *int    `json:"discount,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
}

func (h *CardHandler) UpdateDefinition(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid definition id")
		return
	}

	var req UpdateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	input := service.UpdateDefinitionInput{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if req.Discount != nil {
		d := model.Discount(*req.Discount)
		input.Discount = &d
	}

	def, err := h.defService.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, def)
}

func (h *CardHandler) DeleteDefinition(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid definition id")
		return
	}

	if err := h.defService.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, nil)
}

// GetCustomerLevel returns a customer's total points for the caller's company.
func (h *CardHandler) GetCustomerLevel(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	customerID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	level, err := h.levelService.GetForCompany(c.Request.Context(), userID, customerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, level)
}
