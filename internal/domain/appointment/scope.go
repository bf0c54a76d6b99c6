package appointment

// ConflictScope controls which appointments count as busy time for a master.
// ScopeMaster considers the master's bookings across every salon, so one
// person can never be double-booked. ScopeMasterSalon reproduces the legacy
// behavior where busy time is tracked per (master, salon) pair and a master
// could in principle be booked at two salons at once.
type ConflictScope string

const (
	ScopeMaster      ConflictScope = "master"
	ScopeMasterSalon ConflictScope = "master_salon"
)

func ParseConflictScope(s string) ConflictScope {
	if ConflictScope(s) == ScopeMasterSalon {
		return ScopeMasterSalon
	}
	return ScopeMaster
}

// SalonFilter returns the salon id to scope busy-set reads with: the salon
// itself under ScopeMasterSalon, zero (any salon) under ScopeMaster.
func (s ConflictScope) SalonFilter(salonID uint) uint {
	if s == ScopeMasterSalon {
		return salonID
	}
	return 0
}
