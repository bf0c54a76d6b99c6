package schedule

import (
	"sort"
	"time"
)

// Calendar answers availability questions for one (master, day) pair. The
// busy set is the master's active appointment intervals for that day; it is
// a read snapshot, the calendar itself never touches storage.
type Calendar struct {
	day  time.Time
	busy []Interval
}

func NewCalendar(day time.Time, busy []Interval) *Calendar {
	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return &Calendar{day: day, busy: sorted}
}

func (c *Calendar) Day() time.Time {
	return c.day
}

// IsFree reports whether the candidate interval overlaps no active
// appointment. It is the single source of truth for conflict detection and
// is re-checked inside the booking transaction.
func (c *Calendar) IsFree(candidate Interval) bool {
	for _, b := range c.busy {
		if !b.Start.Before(candidate.End) {
			break
		}
		if candidate.Overlaps(b) {
			return false
		}
	}
	return true
}

// FreeSlots walks candidate start times across the working window in steps
// of the slot granularity and returns every interval of the given duration
// that is bookable: not earlier than now plus the lead time, clear of the
// break and clear of the busy set. Slots come back ordered by start time and
// the result is fully determined by (day, duration, policy, busy set, now).
func (c *Calendar) FreeSlots(p Policy, duration time.Duration, now time.Time) []Interval {
	if duration <= 0 {
		return nil
	}

	work := p.WorkWindow(c.day)
	brk, hasBreak := p.BreakWindow(c.day)
	minStart := now.Add(p.MinLeadTime)

	var slots []Interval
	for s := work.Start; !s.Add(duration).After(work.End); {
		if s.Before(minStart) {
			s = s.Add(p.SlotGranularity)
			continue
		}

		candidate := Interval{Start: s, End: s.Add(duration)}

		// A slot that would run into the break is never offered; jump the
		// cursor straight to the end of the break instead of stepping
		// through starts that cannot fit anyway.
		if hasBreak && candidate.Overlaps(brk) {
			s = brk.End
			continue
		}

		if c.IsFree(candidate) {
			slots = append(slots, candidate)
		}
		s = s.Add(p.SlotGranularity)
	}

	return slots
}
