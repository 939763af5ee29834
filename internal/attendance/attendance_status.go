package attendance

import "fmt"

// Status is the closed set of attendance outcomes. The stored tokens must
// match the Postgres enum exactly, so conversion is explicit and total.
type Status string

const (
	StatusPresent        Status = "Present"
	StatusLate           Status = "Late"
	StatusAbsent         Status = "Absent"
	StatusLeftEarly      Status = "Left_Early"
	StatusUnverifiedFace Status = "Unverified_Face"
	StatusManualOverride Status = "Manual_Override"
)

var allStatuses = map[Status]struct{}{
	StatusPresent:        {},
	StatusLate:           {},
	StatusAbsent:         {},
	StatusLeftEarly:      {},
	StatusUnverifiedFace: {},
	StatusManualOverride: {},
}

func (s Status) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus maps a stored or submitted token back to a Status, rejecting
// anything outside the closed set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown attendance status %q", raw)
	}
	return s, nil
}
