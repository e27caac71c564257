package booking

import "time"

// IsAlignedSlot reports whether [start, end) is exactly one slot of kind with
// both ends on a whole hour in loc.
func IsAlignedSlot(start, end time.Time, kind Kind, loc *time.Location) bool {
	d, err := SlotDuration(kind)
	if err != nil {
		return false
	}
	if end.Sub(start) != d {
		return false
	}
	return onTheHour(start.In(loc)) && onTheHour(end.In(loc))
}

func onTheHour(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// IsFuture reports whether start is not before now. A start equal to now is
// still bookable.
func IsFuture(start, now time.Time) bool {
	return !start.Before(now)
}

// IsCalendarAllowed reports whether the policy's calendar admits a reservation
// starting at start.
func (p Policy) IsCalendarAllowed(start time.Time, loc *time.Location) bool {
	if p.BlackoutWeekday == nil {
		return true
	}
	return start.In(loc).Weekday() != *p.BlackoutWeekday
}
