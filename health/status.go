package health

// Status represents the reported state of a single indicator or of the
// system as a whole.
type Status string

const (
	// StatusUp indicates the component is functioning normally.
	StatusUp Status = "UP"
	// StatusDown indicates the component is not functioning.
	StatusDown Status = "DOWN"
	// StatusOutOfService indicates the component has been taken out of
	// service deliberately.
	StatusOutOfService Status = "OUT_OF_SERVICE"
	// StatusUnknown indicates the component's state could not be determined.
	StatusUnknown Status = "UNKNOWN"
)

// severity orders statuses from worst to best. Unrecognized statuses rank
// as UNKNOWN.
func (s Status) severity() int {
	switch s {
	case StatusDown:
		return 0
	case StatusOutOfService:
		return 1
	case StatusUp:
		return 3
	default:
		return 2
	}
}

// Worst returns the more severe of two statuses.
func Worst(a, b Status) Status {
	if b.severity() < a.severity() {
		return b
	}
	return a
}
