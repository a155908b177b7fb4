package roles

import "fmt"

type Role string

const (
	Admin            Role = "ADMIN"
	WarehouseManager Role = "WAREHOUSE_MANAGER"
	BranchManager    Role = "BRANCH_MANAGER"
	SalesOfficer     Role = "SALES_OFFICER"
)

func (r Role) IsValid() bool {
	switch r {
	case Admin, WarehouseManager, BranchManager, SalesOfficer:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

func NewRole(value string) (Role, error) {
	role := Role(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", value)
	}
	return role, nil
}

// RequiresLocation reports whether a user with this role must be assigned to
// a location. Only admins float free.
func (r Role) RequiresLocation() bool {
	return r != Admin
}

func (r Role) CanManageUsers() bool {
	return r == Admin
}

func (r Role) CanManageLocations() bool {
	return r == Admin
}

func (r Role) CanImportStock() bool {
	return r == Admin || r == WarehouseManager
}

func (r Role) CanInitiateTransfer() bool {
	return r == Admin || r == WarehouseManager || r == BranchManager
}

// RequiresTransferApproval reports whether a transfer initiated by this role
// starts in PENDING_APPROVAL instead of going straight to PENDING.
func (r Role) RequiresTransferApproval() bool {
	return r == BranchManager
}

func (r Role) CanApproveTransfer() bool {
	return r == Admin || r == WarehouseManager
}

func (r Role) CanReceiveTransfer() bool {
	return r == Admin || r == BranchManager || r == WarehouseManager
}

func (r Role) CanRecordSale() bool {
	return r == Admin || r == BranchManager || r == SalesOfficer
}

func (r Role) CanViewReports() bool {
	return r != SalesOfficer
}

// ScopedToLocation reports whether record visibility for this role is
// limited to the user's assigned location.
func (r Role) ScopedToLocation() bool {
	return r != Admin
}

// CanManageSale decides edit/delete access for an existing sale. Sales
// officers only touch their own sales, branch managers anything at their
// branch, admins everything.
func CanManageSale(role Role, userID, userLocationID, saleOfficerID, saleBranchID string) bool {
	switch role {
	case Admin:
		return true
	case BranchManager:
		return saleBranchID == userLocationID
	case SalesOfficer:
		return saleOfficerID == userID && saleBranchID == userLocationID
	default:
		return false
	}
}
