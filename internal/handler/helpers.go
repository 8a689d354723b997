package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/handler/middleware"
	"stempelwerk/loyalty/internal/service"
	jwtpkg "stempelwerk/loyalty/pkg/jwt"
	"stempelwerk/loyalty/pkg/response"
)

func getUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	claimsVal, exists := c.Get(middleware.ContextKeyUserClaims)
	if !exists {
		return uuid.Nil, ErrNoClaims
	}
	claims, ok := claimsVal.(*jwtpkg.Claims)
	if !ok {
		return uuid.Nil, ErrNoClaims
	}
	return uuid.Parse(claims.Subject)
}

var ErrNoClaims = errors.New("claims not found in context")

// respondServiceError maps the service error taxonomy onto HTTP. The
// distinctions matter to client UX: "already used" must not read like
// "invalid link".
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCompanyNotFound),
		errors.Is(err, service.ErrDefinitionNotFound),
		errors.Is(err, service.ErrInstanceNotFound),
		errors.Is(err, service.ErrLevelNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, service.ErrNotCardOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrGrantAlreadyUsed),
		errors.Is(err, service.ErrTokenAlreadyUsed):
		response.Gone(c, err.Error())
	case errors.Is(err, service.ErrTokenMalformed):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrCardNotFull),
		errors.Is(err, service.ErrCapacityExceeded):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidPointCount),
		errors.Is(err, service.ErrInvalidDefinition):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrDefinitionLimitReached),
		errors.Is(err, service.ErrDefinitionInUse):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, "internal error")
	}
}
