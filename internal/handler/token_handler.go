package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/service"
	"stempelwerk/loyalty/pkg/response"
)

type TokenHandler struct {
	grantService      service.GrantTokenService
	redemptionService service.RedemptionService
}

func NewTokenHandler(grantService service.GrantTokenService, redemptionService service.RedemptionService) *TokenHandler {
	return &TokenHandler{grantService: grantService, redemptionService: redemptionService}
}

type IssueGrantRequest struct {
	DefinitionID string `json:"definition_id" binding:"required,uuid"`
	Points       int    `json:"points" binding:"required,min=1"`
}

// IssueGrant mints a signed grant token the customer will scan.
func (h *TokenHandler) IssueGrant(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req IssueGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	definitionID, err := uuid.Parse(req.DefinitionID)
	if err != nil {
		response.BadRequest(c, "invalid definition id")
		return
	}

	token, err := h.grantService.Issue(c.Request.Context(), userID, definitionID, req.Points)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"token": token})
}

type RedeemTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RedeemGrant applies a scanned grant token to the calling customer's cards.
func (h *TokenHandler) RedeemGrant(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req RedeemTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.grantService.Redeem(c.Request.Context(), req.Token, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// RedeemFullCard consumes a full card's redemption token scanned by the
// merchant.
func (h *TokenHandler) RedeemFullCard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req RedeemTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	inst, err := h.redemptionService.Redeem(c.Request.Context(), req.Token, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, inst)
}
