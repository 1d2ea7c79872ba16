package schedule

import (
	"time"

	"github.com/jonathan/study-schedule/internal/hebcal"
)

// MinCustomStartAge is the approximate age from which a custom start date is honored.
const MinCustomStartAge = hebcal.StartAnniversary

// Range is the inclusive span a schedule covers.
type Range struct {
	Start time.Time
	End   time.Time
	// CustomStart is true when the start came from the caller instead of the
	// fifth Hebrew birthday.
	CustomStart bool
	// IgnoredCustomStart is true when a custom start was supplied but the child
	// was too young for it to apply.
	IgnoredCustomStart bool
}

// PlanRange picks the schedule range for the anchors. The range runs from the
// fifth to the tenth Hebrew birthday; a child whose approximate age at now is
// at least five may start on customStart instead.
func PlanRange(anchors hebcal.Anchors, now time.Time, customStart *time.Time) (Range, error) {
	r := Range{Start: anchors.Fifth, End: anchors.Tenth}

	if customStart != nil {
		if hebcal.ApproximateAge(anchors.Birth, now) >= MinCustomStartAge {
			r.Start = hebcal.Midnight(*customStart)
			r.CustomStart = true
		} else {
			r.IgnoredCustomStart = true
		}
	}

	if r.Start.After(r.End) {
		return r, &RangeError{Start: r.Start, End: r.End}
	}
	return r, nil
}
