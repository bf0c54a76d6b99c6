package models

import "time"

type Service struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Description string `gorm:"size:255;not null" json:"description"`

	DurationMinutes int  `json:"duration_minutes"`
	BasePrice       int  `json:"base_price"`
	Active          bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
