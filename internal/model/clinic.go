package model

import "gorm.io/gorm"

// Clinic represents a registered clinic
type Clinic struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}
