package models

import "time"

type Appointment struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Ref string `gorm:"size:36;uniqueIndex" json:"ref"`

	ClientID uint `gorm:"index" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	SalonID uint  `json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"salon"`

	// The partial unique index is the storage backstop for the overlap
	// invariant: two active appointments for one master can never share a
	// start time, whatever the application layer believed it saw.
	MasterID uint   `gorm:"index:idx_appointments_master_day;uniqueIndex:ux_appointments_active_start,where:active" json:"master_id"`
	Master   Master `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"master"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// EndTime is a snapshot of StartTime plus the service duration taken at
	// booking time. It is never recomputed if the service changes later.
	StartTime time.Time `gorm:"index:idx_appointments_master_day;uniqueIndex:ux_appointments_active_start,where:active" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Soft delete: cancelled appointments stay in the table with Active=false
	// and their interval becomes bookable again.
	Active    bool `gorm:"default:true" json:"active"`
	Confirmed bool `gorm:"default:true" json:"confirmed"`

	Comment     string     `gorm:"size:300" json:"comment"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
