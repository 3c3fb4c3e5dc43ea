package admission

import "time"

// ApplyStatusTransition decides what a status-touching write does to the
// discharge date. Recovering (sick to healthy) stamps now in UTC; relapsing
// (healthy to sick) clears it. Writing the same status back leaves the
// discharge date alone: override is false and the caller must not touch it.
func ApplyStatusTransition(current, requested Status, now time.Time) (override bool, discharge *time.Time) {
	switch {
	case current == StatusSick && requested == StatusHealthy:
		d := now.UTC()
		return true, &d
	case current == StatusHealthy && requested == StatusSick:
		return true, nil
	default:
		return false, nil
	}
}
