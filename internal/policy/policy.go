// Package policy holds the pure access decisions for the role-scoped API.
// Every function answers "may this principal act on this record" without
// touching the database; the services fetch records and scope their list
// queries, then consult the policy before any mutation or read-through.
package policy

import (
	"github.com/taskdesk/taskdesk-api/internal/models"
)

// Principal is the authenticated caller, resolved by the auth middleware
// and threaded explicitly through every service call.
type Principal struct {
	ID        uint64
	Role      models.Role
	CompanyID *uint64
}

// SameCompany reports whether the principal belongs to the given company.
func (p Principal) SameCompany(companyID *uint64) bool {
	if p.CompanyID == nil || companyID == nil {
		return false
	}
	return *p.CompanyID == *companyID
}

// Decision is the outcome of a policy check. Reason is for logs and tests
// only and must never be surfaced to callers.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// TaskScope selects which ownership rule applies to a task operation.
// The HTTP route group a request was dispatched into determines the scope.
type TaskScope int

const (
	// TaskScopeLegacy covers the role-agnostic task endpoints, scoped
	// purely by creator.
	TaskScopeLegacy TaskScope = iota
	// TaskScopeCompany covers the company-admin task endpoints.
	TaskScopeCompany
	// TaskScopeSelf covers the user self-service task endpoints.
	TaskScopeSelf
)

// CanManageCompany allows company CRUD and customer listing for platform
// admins only.
func CanManageCompany(p Principal, _ models.Company) Decision {
	if p.Role != models.RoleAdmin {
		return Deny("principal is not an admin")
	}
	return Allow()
}

// CanManageCompanyScopedTask allows a company admin to act on tasks that
// belong to its own company.
func CanManageCompanyScopedTask(p Principal, t models.Task) Decision {
	if p.Role != models.RoleCompany {
		return Deny("principal is not a company admin")
	}
	if !p.SameCompany(t.CompanyID) {
		return Deny("task belongs to a different company")
	}
	return Allow()
}

// CanManageOwnTask allows a plain user to act on tasks assigned to them.
func CanManageOwnTask(p Principal, t models.Task) Decision {
	if p.Role != models.RoleUser {
		return Deny("principal is not a plain user")
	}
	if t.AssignedTo == nil || *t.AssignedTo != p.ID {
		return Deny("task is not assigned to the principal")
	}
	return Allow()
}

// CanManageLegacyTask allows any principal to act on tasks it created,
// regardless of role.
func CanManageLegacyTask(p Principal, t models.Task) Decision {
	if t.CreatorID != p.ID {
		return Deny("principal is not the task creator")
	}
	return Allow()
}

// CanManageTask dispatches to the ownership rule for the given scope.
func CanManageTask(p Principal, scope TaskScope, t models.Task) Decision {
	switch scope {
	case TaskScopeCompany:
		return CanManageCompanyScopedTask(p, t)
	case TaskScopeSelf:
		return CanManageOwnTask(p, t)
	default:
		return CanManageLegacyTask(p, t)
	}
}

// CanManageCompanyScopedUser allows a company admin to manage plain users
// of its own company. Other company admins and platform admins are never
// manageable through the company surface.
func CanManageCompanyScopedUser(p Principal, target models.User) Decision {
	if p.Role != models.RoleCompany {
		return Deny("principal is not a company admin")
	}
	if !p.SameCompany(target.CompanyID) {
		return Deny("user belongs to a different company")
	}
	if target.Role != models.RoleUser {
		return Deny("target is not a plain user")
	}
	return Allow()
}
