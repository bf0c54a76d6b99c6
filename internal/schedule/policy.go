package schedule

import (
	"fmt"
	"time"
)

// Policy describes the bookable window of one working day: opening hours, an
// optional break, the slot step and the minimum lead time before which no
// slot may start. A single default policy applies to every master; it is a
// value object so a per-salon schedule can be introduced without touching
// the enumeration algorithm.
type Policy struct {
	WorkStart  string // "15:04"
	WorkEnd    string
	BreakStart string
	BreakEnd   string

	SlotGranularity time.Duration
	MinLeadTime     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		WorkStart:       "10:00",
		WorkEnd:         "19:00",
		BreakStart:      "13:00",
		BreakEnd:        "14:00",
		SlotGranularity: 15 * time.Minute,
		MinLeadTime:     2 * time.Hour,
	}
}

// Validate rejects a policy whose clock strings do not parse or whose
// windows are inverted. The strings come from operator configuration, so a
// bad value must stop the process at startup rather than quietly project
// onto midnight.
func (p Policy) Validate() error {
	start, err := time.Parse("15:04", p.WorkStart)
	if err != nil {
		return fmt.Errorf("work start %q: %w", p.WorkStart, err)
	}
	end, err := time.Parse("15:04", p.WorkEnd)
	if err != nil {
		return fmt.Errorf("work end %q: %w", p.WorkEnd, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("work window %s-%s is empty", p.WorkStart, p.WorkEnd)
	}

	if p.BreakStart != "" || p.BreakEnd != "" {
		bs, err := time.Parse("15:04", p.BreakStart)
		if err != nil {
			return fmt.Errorf("break start %q: %w", p.BreakStart, err)
		}
		be, err := time.Parse("15:04", p.BreakEnd)
		if err != nil {
			return fmt.Errorf("break end %q: %w", p.BreakEnd, err)
		}
		if !bs.Before(be) {
			return fmt.Errorf("break window %s-%s is empty", p.BreakStart, p.BreakEnd)
		}
	}

	if p.SlotGranularity <= 0 {
		return fmt.Errorf("slot granularity must be positive, got %s", p.SlotGranularity)
	}
	return nil
}

// WithLeadTime returns a copy of the policy with a different minimum lead
// time, for callers that pass the lead as a request parameter.
func (p Policy) WithLeadTime(lead time.Duration) Policy {
	p.MinLeadTime = lead
	return p
}

func atTimeOfDay(day time.Time, hm string) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	)
}

// WorkWindow projects the policy's opening hours onto a calendar day.
func (p Policy) WorkWindow(day time.Time) Interval {
	return Interval{
		Start: atTimeOfDay(day, p.WorkStart),
		End:   atTimeOfDay(day, p.WorkEnd),
	}
}

// BreakWindow projects the break onto a calendar day. The second return is
// false when the policy has no break configured.
func (p Policy) BreakWindow(day time.Time) (Interval, bool) {
	if p.BreakStart == "" || p.BreakEnd == "" {
		return Interval{}, false
	}
	return Interval{
		Start: atTimeOfDay(day, p.BreakStart),
		End:   atTimeOfDay(day, p.BreakEnd),
	}, true
}
