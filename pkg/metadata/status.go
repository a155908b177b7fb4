package metadata

import "fmt"

// LocationIDTransit is the reserved pseudo-location assigned to motorcycles
// that are physically between locations. It is never a row in the locations
// table.
const LocationIDTransit = "TRANSIT"

type MotorcycleStatus string

const (
	MotorcycleInWarehouse MotorcycleStatus = "IN_WAREHOUSE"
	MotorcycleInTransit   MotorcycleStatus = "IN_TRANSIT"
	MotorcycleAtBranch    MotorcycleStatus = "AT_BRANCH"
	MotorcycleSold        MotorcycleStatus = "SOLD"
)

func NewMotorcycleStatus(value string) (MotorcycleStatus, error) {
	status := MotorcycleStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid motorcycle status: %s", value)
	}
	return status, nil
}

func (s MotorcycleStatus) IsValid() bool {
	switch s {
	case MotorcycleInWarehouse, MotorcycleInTransit, MotorcycleAtBranch, MotorcycleSold:
		return true
	default:
		return false
	}
}

func (s MotorcycleStatus) String() string {
	return string(s)
}

type TransferStatus string

// The original product UI shows PENDING transfers as "IN TRANSIT"; there is
// no separate in-transit transfer state, PENDING is the operational one.
const (
	TransferPendingApproval TransferStatus = "PENDING_APPROVAL"
	TransferPending         TransferStatus = "PENDING"
	TransferCompleted       TransferStatus = "COMPLETED"
	TransferCancelled       TransferStatus = "CANCELLED"
)

func NewTransferStatus(value string) (TransferStatus, error) {
	status := TransferStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid transfer status: %s", value)
	}
	return status, nil
}

func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferPendingApproval, TransferPending, TransferCompleted, TransferCancelled:
		return true
	default:
		return false
	}
}

// DisplayLabel returns the label shown to users, which differs from the
// stored value only for PENDING.
func (s TransferStatus) DisplayLabel() string {
	if s == TransferPending {
		return "IN TRANSIT"
	}
	return string(s)
}

// IsCancellable reports whether a transfer in this state may still be
// cancelled. COMPLETED and CANCELLED are terminal.
func (s TransferStatus) IsCancellable() bool {
	return s == TransferPendingApproval || s == TransferPending
}

type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE"
	LocationBranch    LocationType = "BRANCH"
)

func NewLocationType(value string) (LocationType, error) {
	locationType := LocationType(value)
	if !locationType.IsValid() {
		return "", fmt.Errorf("invalid location type: %s", value)
	}
	return locationType, nil
}

func (t LocationType) IsValid() bool {
	return t == LocationWarehouse || t == LocationBranch
}

// ExpectedStatus is the motorcycle status implied by standing stock at a
// location of this type.
func (t LocationType) ExpectedStatus() MotorcycleStatus {
	if t == LocationWarehouse {
		return MotorcycleInWarehouse
	}
	return MotorcycleAtBranch
}
