package booking

type Status string

const (
	StatusActive           Status = "active"
	StatusCheckInReady     Status = "check_in_ready"
	StatusCheckedIn        Status = "checked_in"
	StatusDisputed         Status = "disputed"
	StatusEscalatedToAdmin Status = "escalated_to_admin"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
	StatusRefunded         Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCheckInReady, StatusCheckedIn, StatusDisputed,
		StatusEscalatedToAdmin, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// HoldsDates reports whether a booking in this status blocks its date range.
func (s Status) HoldsDates() bool {
	return s != StatusCancelled && s != StatusRefunded
}
