package service

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrCompanyNotFound        = errors.New("company not found")
	ErrDefinitionNotFound     = errors.New("point card not found")
	ErrInstanceNotFound       = errors.New("customer point card not found")
	ErrLevelNotFound          = errors.New("customer level not found")
	ErrNotAuthorized          = errors.New("user has no authority over this company's cards")
	ErrNotCardOwner           = errors.New("user is not owner of point card")
	ErrGrantAlreadyUsed       = errors.New("grant token already used")
	ErrTokenAlreadyUsed       = errors.New("redemption token already used")
	ErrTokenMalformed         = errors.New("token invalid or expired")
	ErrCardNotFull            = errors.New("customer point card is not full")
	ErrCapacityExceeded       = errors.New("customer point card over capacity")
	ErrInvalidPointCount      = errors.New("point count must be at least 1")
	ErrInvalidDefinition      = errors.New("invalid point card configuration")
	ErrDefinitionInUse        = errors.New("point card already has customer instances")
	ErrDefinitionLimitReached = errors.New("maximum number of point cards reached")
)
