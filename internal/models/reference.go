package models

import "time"

// AcademicYear is a reference row used to scope assessments.
type AcademicYear struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	StartDate string    `gorm:"size:10" json:"start_date"`
	EndDate   string    `gorm:"size:10" json:"end_date"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Institution is an education institution a user may assess.
type Institution struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UTISCode  string    `gorm:"size:20;uniqueIndex" json:"utis_code"`
	Type      string    `gorm:"size:50" json:"type"`
	RegionID  *uint     `json:"region_id"`
	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
