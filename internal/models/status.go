package models

// Status is the closed set of invoice lifecycle states.
type Status string

const (
	StatusDraft   Status = "DRAFT"
	StatusSent    Status = "SENT"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// Statuses lists every valid status in declaration order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue}
}

// ParseStatus maps a raw string onto the enum. Anything outside the four
// members is rejected here, before it can reach the store.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	if !s.Valid() {
		return "", false
	}
	return s, true
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving to target is legal. The baseline
// policy is permissive: any status may move to any valid status, and send
// overwrites even PAID. Tightening the graph is a change to this one
// function only.
func (s Status) CanTransitionTo(target Status) bool {
	return target.Valid()
}

func (s Status) String() string { return string(s) }
