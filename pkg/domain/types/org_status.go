package types

import "fmt"

// OrgStatus represents a participating organization's response standing.
type OrgStatus string

const (
	OrgStatusUnknown    OrgStatus = "Unknown"
	OrgStatusInvited    OrgStatus = "Invited"
	OrgStatusEvaluating OrgStatus = "Evaluating"
	OrgStatusStandby    OrgStatus = "Standby"
	OrgStatusResponding OrgStatus = "Responding"
	OrgStatusCleared    OrgStatus = "Cleared"
)

// AllOrgStatuses returns all valid organization statuses
func AllOrgStatuses() []OrgStatus {
	return []OrgStatus{
		OrgStatusUnknown,
		OrgStatusInvited,
		OrgStatusEvaluating,
		OrgStatusStandby,
		OrgStatusResponding,
		OrgStatusCleared,
	}
}

// IsValid checks if the organization status is valid
func (s OrgStatus) IsValid() bool {
	switch s {
	case OrgStatusUnknown,
		OrgStatusInvited,
		OrgStatusEvaluating,
		OrgStatusStandby,
		OrgStatusResponding,
		OrgStatusCleared:
		return true
	default:
		return false
	}
}

// String returns the string representation of the organization status
func (s OrgStatus) String() string {
	return string(s)
}

// ParseOrgStatus parses a string into an OrgStatus
func ParseOrgStatus(s string) (OrgStatus, error) {
	status := OrgStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid organization status: %s", s)
	}
	return status, nil
}
