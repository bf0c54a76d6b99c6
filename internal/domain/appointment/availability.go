package appointment

import "time"

// FreeSlotsInput selects a salon/service/day to enumerate slots for.
// MasterID zero means every active master of the salon.
type FreeSlotsInput struct {
	SalonID   uint
	ServiceID uint
	MasterID  uint
	Day       time.Time

	// MinLeadHours overrides the policy lead time when positive.
	MinLeadHours int
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MasterSlots struct {
	MasterID uint       `json:"master_id"`
	Slots    []TimeSlot `json:"slots"`
}
