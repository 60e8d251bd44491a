package permission

// Permission is one tier in the capability hierarchy.
// Ordering matters: Controller > Approver > Verifier > Requester > Viewer.
type Permission string

const (
	NoAccess   Permission = "no_access"
	Viewer     Permission = "viewer"
	Requester  Permission = "requester"
	Verifier   Permission = "verifier"
	Approver   Permission = "approver"
	Controller Permission = "controller"
)

// rank maps each permission to its position in the hierarchy.
// NoAccess is deliberately outside the hierarchy (rank 0 = unrankable).
var rank = map[Permission]int{
	Viewer:     1,
	Requester:  2,
	Verifier:   3,
	Approver:   4,
	Controller: 5,
}

// Module identifies a governed area of the system.
type Module string

const (
	ModuleDashboard        Module = "dashboard"
	ModuleVendors          Module = "vendors"
	ModuleVendorDD         Module = "vendor_dd"
	ModuleTenders          Module = "tenders"
	ModuleTenderEvaluation Module = "tender_evaluation"
	ModuleTenderProposals  Module = "tender_proposals"
	ModuleContracts        Module = "contracts"
	ModulePurchaseOrders   Module = "purchase_orders"
	ModuleResources        Module = "resources"
	ModuleInvoices         Module = "invoices"
	ModuleAssets           Module = "assets"
	ModuleServiceRequests  Module = "service_requests"
)

// Role names match the `role` claim carried in the JWT.
const (
	RoleUser               = "user"
	RoleDirectManager      = "direct_manager"
	RoleProcurementOfficer = "procurement_officer"
	RoleSeniorManager      = "senior_manager"
	RoleProcurementManager = "procurement_manager"
	RoleAdmin              = "admin"
)

// Set is an immutable set of permissions a role holds for one module.
type Set map[Permission]bool

func newSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = true
	}
	return s
}

// rolePermissions is the role → module → capability-set matrix. Built once at
// package init and never mutated at runtime; treat it as configuration data.
var rolePermissions = map[string]map[Module]Set{
	RoleUser: {
		ModuleDashboard:        newSet(Viewer), // own requests only
		ModuleVendors:          newSet(Viewer),
		ModuleVendorDD:         newSet(Viewer),
		ModuleTenders:          newSet(Requester),
		ModuleTenderEvaluation: newSet(Requester),
		ModuleTenderProposals:  newSet(Viewer),
		ModuleContracts:        newSet(Requester),
		ModulePurchaseOrders:   newSet(Requester),
		ModuleResources:        newSet(Requester),
		ModuleInvoices:         newSet(Verifier),
		ModuleAssets:           newSet(NoAccess),
		ModuleServiceRequests:  newSet(Requester),
	},
	RoleDirectManager: {
		ModuleDashboard:        newSet(Viewer), // domain only
		ModuleVendors:          newSet(Viewer),
		ModuleVendorDD:         newSet(Viewer),
		ModuleTenders:          newSet(Verifier),
		ModuleTenderEvaluation: newSet(Verifier),
		ModuleTenderProposals:  newSet(Viewer),
		ModuleContracts:        newSet(Verifier),
		ModulePurchaseOrders:   newSet(Verifier),
		ModuleResources:        newSet(Verifier),
		ModuleInvoices:         newSet(Verifier),
		ModuleAssets:           newSet(NoAccess),
		ModuleServiceRequests:  newSet(Requester),
	},
	RoleProcurementOfficer: {
		ModuleDashboard:        newSet(Viewer),
		ModuleVendors:          newSet(Requester, Verifier),
		ModuleVendorDD:         newSet(Requester),
		ModuleTenders:          newSet(Requester, Verifier),
		ModuleTenderEvaluation: newSet(Requester, Verifier),
		ModuleTenderProposals:  newSet(Requester),
		ModuleContracts:        newSet(Requester, Verifier),
		ModulePurchaseOrders:   newSet(Requester, Verifier),
		ModuleResources:        newSet(Requester, Verifier),
		ModuleInvoices:         newSet(Requester, Verifier),
		ModuleAssets:           newSet(Requester),
		ModuleServiceRequests:  newSet(Requester, Verifier),
	},
	RoleSeniorManager: {
		ModuleDashboard:        newSet(Viewer),
		ModuleVendors:          newSet(Viewer),
		ModuleVendorDD:         newSet(Viewer),
		ModuleTenders:          newSet(Approver, Viewer),
		ModuleTenderEvaluation: newSet(Approver, Viewer),
		ModuleTenderProposals:  newSet(Viewer),
		ModuleContracts:        newSet(Approver, Viewer),
		ModulePurchaseOrders:   newSet(Approver, Viewer),
		ModuleResources:        newSet(Approver, Viewer),
		ModuleInvoices:         newSet(Approver, Viewer),
		ModuleAssets:           newSet(NoAccess),
		ModuleServiceRequests:  newSet(Requester),
	},
	RoleProcurementManager: {
		ModuleDashboard:        newSet(Viewer),
		ModuleVendors:          newSet(Approver, Viewer),
		ModuleVendorDD:         newSet(Approver, Viewer),
		ModuleTenders:          newSet(Approver, Viewer),
		ModuleTenderEvaluation: newSet(Approver, Viewer),
		ModuleTenderProposals:  newSet(Approver, Viewer),
		ModuleContracts:        newSet(Approver, Viewer),
		ModulePurchaseOrders:   newSet(Approver, Viewer),
		ModuleResources:        newSet(Approver, Viewer),
		ModuleInvoices:         newSet(Approver, Viewer),
		ModuleAssets:           newSet(Approver, Viewer),
		ModuleServiceRequests:  newSet(Approver, Viewer),
	},
}

// permsFor returns the capability set for (role, module), defaulting to
// {no_access} for unknown roles or unmapped modules. Fails closed.
func permsFor(role string, module Module) Set {
	mods, ok := rolePermissions[role]
	if !ok {
		return newSet(NoAccess)
	}
	perms, ok := mods[module]
	if !ok {
		return newSet(NoAccess)
	}
	return perms
}

// HasPermission reports whether a role holds at least the required capability
// for a module. Admin bypasses the matrix entirely.
func HasPermission(role string, module Module, required Permission) bool {
	if role == RoleAdmin {
		return true
	}

	perms := permsFor(role, module)
	if perms[NoAccess] {
		return false
	}
	if perms[Controller] {
		return true
	}

	reqRank, ok := rank[required]
	if !ok {
		return false
	}
	for p := range perms {
		if rank[p] >= reqRank {
			return true
		}
	}
	return false
}

// CanAccessModule reports whether the role has any capability on the module.
func CanAccessModule(role string, module Module) bool {
	if role == RoleAdmin {
		return true
	}
	return !permsFor(role, module)[NoAccess]
}

// PermissionsFor returns the raw capability set for a role on a module,
// used by the /me endpoint to describe effective access to the frontend.
func PermissionsFor(role string, module Module) []Permission {
	if role == RoleAdmin {
		return []Permission{Controller}
	}
	perms := permsFor(role, module)
	out := make([]Permission, 0, len(perms))
	for _, p := range []Permission{NoAccess, Viewer, Requester, Verifier, Approver, Controller} {
		if perms[p] {
			out = append(out, p)
		}
	}
	return out
}

// CanCreate reports whether the role may create records in the module.
func CanCreate(role string, module Module) bool {
	return HasPermission(role, module, Requester)
}

// CanEdit reports whether the role may edit records in the module.
func CanEdit(role string, module Module) bool {
	if role == RoleAdmin {
		return true
	}
	perms := permsFor(role, module)
	return perms[Requester] || perms[Verifier] || perms[Approver] || perms[Controller]
}

// CanVerify reports whether the role may review/verify records in the module.
func CanVerify(role string, module Module) bool {
	return HasPermission(role, module, Verifier)
}

// CanApprove reports whether the role may approve records in the module.
func CanApprove(role string, module Module) bool {
	return HasPermission(role, module, Approver)
}

// CanDelete reports whether the role may delete records in the module.
// Delete is intentionally granted at approver tier, not controller-only.
func CanDelete(role string, module Module) bool {
	return HasPermission(role, module, Approver)
}

// ShouldFilterByOwner reports whether listings must be scoped to records the
// actor submitted. Applies to the base user role on its home dashboard.
func ShouldFilterByOwner(role string, module Module) bool {
	return role == RoleUser && module == ModuleDashboard
}

// ShouldFilterByDomain reports whether listings must be scoped to the actor's
// team/domain. Applies to direct managers on their dashboard.
func ShouldFilterByDomain(role string, module Module) bool {
	return role == RoleDirectManager && module == ModuleDashboard
}
