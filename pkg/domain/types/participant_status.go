package types

import "fmt"

// ParticipantStatus represents a participant's standing on an activity
// roster at a point in time.
type ParticipantStatus string

const (
	StatusNotResponding ParticipantStatus = "NotResponding"
	StatusRemote        ParticipantStatus = "Remote"
	StatusStandby       ParticipantStatus = "Standby"
	StatusSignedIn      ParticipantStatus = "SignedIn"
	StatusSignedOut     ParticipantStatus = "SignedOut"
	StatusAvailable     ParticipantStatus = "Available"
	StatusAssigned      ParticipantStatus = "Assigned"
	StatusDemobilized   ParticipantStatus = "Demobilized"
)

// AllParticipantStatuses returns all valid participant statuses
func AllParticipantStatuses() []ParticipantStatus {
	return []ParticipantStatus{
		StatusNotResponding,
		StatusRemote,
		StatusStandby,
		StatusSignedIn,
		StatusSignedOut,
		StatusAvailable,
		StatusAssigned,
		StatusDemobilized,
	}
}

// IsValid checks if the participant status is valid
func (s ParticipantStatus) IsValid() bool {
	switch s {
	case StatusNotResponding,
		StatusRemote,
		StatusStandby,
		StatusSignedIn,
		StatusSignedOut,
		StatusAvailable,
		StatusAssigned,
		StatusDemobilized:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status counts as actively responding.
// Active participants are force-signed-out when an activity completes.
func (s ParticipantStatus) IsActive() bool {
	switch s {
	case StatusStandby,
		StatusRemote,
		StatusSignedIn,
		StatusAvailable,
		StatusAssigned,
		StatusDemobilized:
		return true
	default:
		return false
	}
}

// String returns the string representation of the participant status
func (s ParticipantStatus) String() string {
	return string(s)
}

// ParseParticipantStatus parses a string into a ParticipantStatus
func ParseParticipantStatus(s string) (ParticipantStatus, error) {
	status := ParticipantStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid participant status: %s", s)
	}
	return status, nil
}
