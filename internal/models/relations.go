package models

// A master may work at more than one salon.
type MasterSalon struct {
	MasterID uint `gorm:"primaryKey" json:"master_id"`
	SalonID  uint `gorm:"primaryKey" json:"salon_id"`
}

type MasterService struct {
	MasterID  uint `gorm:"primaryKey" json:"master_id"`
	ServiceID uint `gorm:"primaryKey" json:"service_id"`

	PersonalPrice *int `json:"personal_price"`
}

type ServiceSalon struct {
	ServiceID uint `gorm:"primaryKey" json:"service_id"`
	SalonID   uint `gorm:"primaryKey" json:"salon_id"`
}
