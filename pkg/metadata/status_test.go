package metadata

import (
	"testing"
)

func TestNewMotorcycleStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"in warehouse", "IN_WAREHOUSE", false},
		{"in transit", "IN_TRANSIT", false},
		{"at branch", "AT_BRANCH", false},
		{"sold", "SOLD", false},
		{"lowercase rejected", "sold", true},
		{"unknown rejected", "PARKED", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMotorcycleStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMotorcycleStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestTransferStatusDisplayLabel(t *testing.T) {
	tests := []struct {
		status   TransferStatus
		expected string
	}{
		{TransferPending, "IN TRANSIT"},
		{TransferPendingApproval, "PENDING_APPROVAL"},
		{TransferCompleted, "COMPLETED"},
		{TransferCancelled, "CANCELLED"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.DisplayLabel(); got != tt.expected {
				t.Errorf("DisplayLabel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTransferStatusIsCancellable(t *testing.T) {
	tests := []struct {
		status   TransferStatus
		expected bool
	}{
		{TransferPendingApproval, true},
		{TransferPending, true},
		{TransferCompleted, false},
		{TransferCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsCancellable(); got != tt.expected {
				t.Errorf("IsCancellable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLocationTypeExpectedStatus(t *testing.T) {
	if got := LocationWarehouse.ExpectedStatus(); got != MotorcycleInWarehouse {
		t.Errorf("ExpectedStatus() = %v, want %v", got, MotorcycleInWarehouse)
	}
	if got := LocationBranch.ExpectedStatus(); got != MotorcycleAtBranch {
		t.Errorf("ExpectedStatus() = %v, want %v", got, MotorcycleAtBranch)
	}
}

func TestNewLocationType(t *testing.T) {
	if _, err := NewLocationType("WAREHOUSE"); err != nil {
		t.Errorf("NewLocationType(WAREHOUSE) unexpected error: %v", err)
	}
	if _, err := NewLocationType("TRANSIT"); err == nil {
		t.Error("NewLocationType(TRANSIT) expected error, the sentinel is not a location type")
	}
}
