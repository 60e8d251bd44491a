package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	// procurement officer holds verifier on vendors, which implies viewer and requester
	assert.True(t, HasPermission(RoleProcurementOfficer, ModuleVendors, Verifier))
	assert.True(t, HasPermission(RoleProcurementOfficer, ModuleVendors, Viewer))
	assert.True(t, HasPermission(RoleProcurementOfficer, ModuleVendors, Requester))
	assert.False(t, HasPermission(RoleProcurementOfficer, ModuleVendors, Approver))

	// base user is viewer on vendors, nothing above
	assert.True(t, HasPermission(RoleUser, ModuleVendors, Viewer))
	assert.False(t, HasPermission(RoleUser, ModuleVendors, Requester))
	assert.False(t, HasPermission(RoleUser, ModuleVendors, Verifier))

	// users have no access to assets at all
	assert.False(t, HasPermission(RoleUser, ModuleAssets, Viewer))

	// senior manager approves tenders but cannot touch assets
	assert.True(t, HasPermission(RoleSeniorManager, ModuleTenders, Approver))
	assert.False(t, HasPermission(RoleSeniorManager, ModuleAssets, Viewer))
}

func TestHasPermissionAdminBypass(t *testing.T) {
	for _, m := range []Module{ModuleVendors, ModuleAssets, ModuleTenderEvaluation, Module("does_not_exist")} {
		assert.True(t, HasPermission(RoleAdmin, m, Controller), "admin must pass for module %s", m)
	}
}

func TestHasPermissionFailsClosed(t *testing.T) {
	assert.False(t, HasPermission("intern", ModuleVendors, Viewer))
	assert.False(t, HasPermission("", ModuleVendors, Viewer))
	assert.False(t, HasPermission(RoleUser, Module("unknown_module"), Viewer))
	assert.False(t, HasPermission(RoleUser, ModuleVendors, Permission("superuser")))
}

func TestCanAccessModule(t *testing.T) {
	assert.True(t, CanAccessModule(RoleUser, ModuleVendors))
	assert.False(t, CanAccessModule(RoleUser, ModuleAssets))
	assert.False(t, CanAccessModule(RoleDirectManager, ModuleAssets))
	assert.True(t, CanAccessModule(RoleAdmin, ModuleAssets))
	assert.False(t, CanAccessModule("nobody", ModuleVendors))
}

func TestCapabilityHelpers(t *testing.T) {
	assert.True(t, CanCreate(RoleUser, ModuleTenders))
	assert.False(t, CanCreate(RoleUser, ModuleVendors))

	assert.True(t, CanVerify(RoleDirectManager, ModuleContracts))
	assert.False(t, CanVerify(RoleUser, ModuleContracts))

	assert.True(t, CanApprove(RoleProcurementManager, ModuleVendors))
	assert.False(t, CanApprove(RoleProcurementOfficer, ModuleVendors))

	// delete requires approver tier
	assert.True(t, CanDelete(RoleSeniorManager, ModulePurchaseOrders))
	assert.False(t, CanDelete(RoleProcurementOfficer, ModulePurchaseOrders))
}

func TestPermissionsFor(t *testing.T) {
	assert.Equal(t, []Permission{Controller}, PermissionsFor(RoleAdmin, ModuleVendors))
	assert.Equal(t, []Permission{Requester, Verifier}, PermissionsFor(RoleProcurementOfficer, ModuleVendors))
	assert.Equal(t, []Permission{NoAccess}, PermissionsFor(RoleUser, ModuleAssets))
}

func TestScopeFilters(t *testing.T) {
	assert.True(t, ShouldFilterByOwner(RoleUser, ModuleDashboard))
	assert.False(t, ShouldFilterByOwner(RoleUser, ModuleVendors))
	assert.False(t, ShouldFilterByOwner(RoleDirectManager, ModuleDashboard))

	assert.True(t, ShouldFilterByDomain(RoleDirectManager, ModuleDashboard))
	assert.False(t, ShouldFilterByDomain(RoleUser, ModuleDashboard))
	assert.False(t, ShouldFilterByDomain(RoleSeniorManager, ModuleDashboard))
}
