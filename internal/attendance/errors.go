package attendance

import "errors"

var (
	ErrEmployeeInactive = errors.New("employee is not active")

	// Check-in rule violations, in enforcement order.
	ErrDailyLimitReached = errors.New("check-in limit reached for today")
	ErrAlreadyCheckedIn  = errors.New("already checked in, please check-out first")
	ErrAgendaRequired    = errors.New("at least one agenda is required for check-in")

	// Check-out rule violations.
	ErrNoActiveSession         = errors.New("no active session found, please check-in first")
	ErrReferenceLinkRequired   = errors.New("reference link is required for check-out")
	ErrAgendaCompletionMissing = errors.New("missing agenda completion status")

	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrAgendaNotFound     = errors.New("agenda not found")
)
