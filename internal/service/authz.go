package service

import (
	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/model"
)

// Authorizer answers the one ownership question both token services share:
// does this user have administrative authority over the given company's
// cards. Implemented once so the answer cannot drift between services.
type Authorizer interface {
	// CanActFor is true when the user is the company principal or a verified
	// employee of the company. A pending (unverified) employment confers
	// nothing.
	CanActFor(user *model.User, companyID uuid.UUID) bool
	// ActingCompany resolves which company the user acts for: their own when
	// they are a principal, otherwise their first verified employer. Nil when
	// the user acts for no company.
	ActingCompany(user *model.User) *uuid.UUID
}

type companyAuthorizer struct{}

func NewAuthorizer() Authorizer {
	return companyAuthorizer{}
}

func (companyAuthorizer) CanActFor(user *model.User, companyID uuid.UUID) bool {
	if user == nil {
		return false
	}
	if user.Role.IsOwnerClass() && user.CompanyID != nil && *user.CompanyID == companyID {
		return true
	}
	for _, emp := range user.Employments {
		if emp.CompanyID == companyID && emp.Verified {
			return true
		}
	}
	return false
}

func (companyAuthorizer) ActingCompany(user *model.User) *uuid.UUID {
	if user == nil {
		return nil
	}
	if user.Role.IsOwnerClass() && user.CompanyID != nil {
		return user.CompanyID
	}
	for _, emp := range user.Employments {
		if emp.Verified {
			companyID := emp.CompanyID
			return &companyID
		}
	}
	return nil
}
