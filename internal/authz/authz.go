// Package authz decides whether a caller may perform a request.
//
// The policy is a static ordered rule table evaluated most-specific-first:
// exact sub-paths before method-scoped prefixes before catch-all prefixes.
// Record-level ownership (a technician acting on their own interventions)
// is checked separately by the helpers below.
package authz

import (
	"net/http"
	"strings"

	"maintenance-backend/internal/model"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// anyMethod matches every HTTP method in a rule.
const anyMethod = ""

// rule maps a method and path pattern to the roles allowed through.
// A nil role set means the rule is public.
type rule struct {
	method string
	path   string
	exact  bool
	roles  []model.Role
}

var admin = []model.Role{model.RoleAdmin}
var technician = []model.Role{model.RoleTechnician}
var anyRole = []model.Role{model.RoleAdmin, model.RoleTechnician}

// rules is ordered: the first matching entry wins.
var rules = []rule{
	{method: http.MethodOptions, path: "", roles: nil}, // CORS preflight, any path

	{method: anyMethod, path: "/api/auth", roles: nil},

	{method: http.MethodGet, path: "/api/users", roles: anyRole},
	{method: anyMethod, path: "/api/users", roles: admin},

	{method: http.MethodGet, path: "/api/machines", roles: anyRole},
	{method: http.MethodPost, path: "/api/machines", roles: admin},
	{method: http.MethodPut, path: "/api/machines", roles: anyRole},
	{method: http.MethodDelete, path: "/api/machines", roles: admin},

	{method: http.MethodGet, path: "/api/interventions/my", exact: true, roles: technician},
	{method: http.MethodGet, path: "/api/interventions/technician", roles: admin},
	{method: http.MethodGet, path: "/api/interventions", exact: true, roles: admin},
	{method: http.MethodGet, path: "/api/interventions", roles: anyRole},
	{method: http.MethodPatch, path: "/api/interventions", roles: technician},
	{method: anyMethod, path: "/api/interventions", roles: admin},

	{method: anyMethod, path: "/api/clients", roles: anyRole},
}

func (r rule) matches(method, path string) bool {
	if r.method != anyMethod && r.method != method {
		return false
	}
	if r.path == "" {
		return true
	}
	if r.exact {
		return path == r.path
	}
	return path == r.path || strings.HasPrefix(path, r.path+"/")
}

// Decide evaluates the rule table for the caller's role, method, and path.
// An empty role denotes an unauthenticated caller; any path not covered by
// a rule requires authentication but no particular role.
func Decide(role model.Role, method, path string) Decision {
	for _, r := range rules {
		if !r.matches(method, path) {
			continue
		}
		if r.roles == nil {
			return Decision{Allowed: true}
		}
		if role == "" {
			return Decision{Reason: "authentication required"}
		}
		for _, allowed := range r.roles {
			if role == allowed {
				return Decision{Allowed: true}
			}
		}
		return Decision{Reason: "role " + string(role) + " may not " + method + " " + r.path}
	}
	if role == "" {
		return Decision{Reason: "authentication required"}
	}
	return Decision{Allowed: true}
}

// CanViewIntervention reports whether the caller may read a single
// intervention. Admins always may; a technician only when the intervention
// is assigned to them.
func CanViewIntervention(role model.Role, callerID int64, technicianID *int64) bool {
	if role == model.RoleAdmin {
		return true
	}
	return technicianID != nil && *technicianID == callerID
}

// CanUpdateAsTechnician reports whether a technician may mutate an
// intervention: it must already be assigned, and assigned to the caller.
func CanUpdateAsTechnician(callerID int64, technicianID *int64) bool {
	return technicianID != nil && *technicianID == callerID
}
