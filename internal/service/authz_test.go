package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stempelwerk/loyalty/internal/model"
)

func TestCanActFor(t *testing.T) {
	authz := NewAuthorizer()
	companyID := uuid.New()
	otherCompanyID := uuid.New()

	principal := &model.User{ID: uuid.New(), Role: model.RoleGoldOwner, CompanyID: &companyID}
	require.True(t, authz.CanActFor(principal, companyID))
	require.False(t, authz.CanActFor(principal, otherCompanyID))

	verified := &model.User{ID: uuid.New(), Role: model.RoleEmployee,
		Employments: []model.Employment{{CompanyID: companyID, Verified: true}}}
	require.True(t, authz.CanActFor(verified, companyID))
	require.False(t, authz.CanActFor(verified, otherCompanyID))

	pending := &model.User{ID: uuid.New(), Role: model.RoleEmployee,
		Employments: []model.Employment{{CompanyID: companyID, Verified: false}}}
	require.False(t, authz.CanActFor(pending, companyID))

	// Membership of a company without an owner role is not authority.
	plain := &model.User{ID: uuid.New(), Role: model.RoleUser, CompanyID: &companyID}
	require.False(t, authz.CanActFor(plain, companyID))

	require.False(t, authz.CanActFor(nil, companyID))
}

func TestActingCompany(t *testing.T) {
	authz := NewAuthorizer()
	companyID := uuid.New()

	principal := &model.User{ID: uuid.New(), Role: model.RoleOwner, CompanyID: &companyID}
	got := authz.ActingCompany(principal)
	require.NotNil(t, got)
	require.Equal(t, companyID, *got)

	staff := &model.User{ID: uuid.New(), Role: model.RoleUser,
		Employments: []model.Employment{
			{CompanyID: uuid.New(), Verified: false},
			{CompanyID: companyID, Verified: true},
		}}
	got = authz.ActingCompany(staff)
	require.NotNil(t, got)
	require.Equal(t, companyID, *got)

	nobody := &model.User{ID: uuid.New(), Role: model.RoleUser}
	require.Nil(t, authz.ActingCompany(nobody))
}
