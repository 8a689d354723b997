package model

// Role is the closed set of user roles. Owner tiers differ in billing only;
// their authority over cards is identical.
type Role int

const (
	RoleUser Role = iota + 1
	RoleEmployee
	RoleOwner
	RoleSilverOwner
	RoleGoldOwner
	RolePlatinumOwner
	RoleDev
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleEmployee:
		return "employee"
	case RoleOwner:
		return "owner"
	case RoleSilverOwner:
		return "silver_owner"
	case RoleGoldOwner:
		return "gold_owner"
	case RolePlatinumOwner:
		return "platinum_owner"
	case RoleDev:
		return "dev"
	default:
		return "unknown"
	}
}

// IsOwnerClass reports whether the role identifies a company principal.
func (r Role) IsOwnerClass() bool {
	switch r {
	case RoleOwner, RoleSilverOwner, RoleGoldOwner, RolePlatinumOwner, RoleDev:
		return true
	default:
		return false
	}
}

type Action int

const (
	ActionManageDefinitions Action = iota + 1
	ActionIssueGrant
	ActionScanRedemption
)

type capabilityKey struct {
	role   Role
	action Action
}

// capabilities is built once at startup; membership is the only query.
var capabilities = buildCapabilityTable()

func buildCapabilityTable() map[capabilityKey]struct{} {
	table := make(map[capabilityKey]struct{})
	grant := func(r Role, actions ...Action) {
		for _, a := range actions {
			table[capabilityKey{role: r, action: a}] = struct{}{}
		}
	}

	for _, r := range []Role{RoleOwner, RoleSilverOwner, RoleGoldOwner, RolePlatinumOwner, RoleDev} {
		grant(r, ActionManageDefinitions, ActionIssueGrant, ActionScanRedemption)
	}
	// Counter staff may grant and scan for their employer, never manage cards.
	// A plain user with a verified employment acts as staff too.
	grant(RoleEmployee, ActionIssueGrant, ActionScanRedemption)
	grant(RoleUser, ActionIssueGrant, ActionScanRedemption)
	return table
}

// Can reports whether the role carries the capability.
func (r Role) Can(a Action) bool {
	_, ok := capabilities[capabilityKey{role: r, action: a}]
	return ok
}

// MaxDefinitions is the per-role cap on reward card definitions a company
// principal may create.
func (r Role) MaxDefinitions() int {
	return 4
}
