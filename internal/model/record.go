package model

import (
	"time"

	"gorm.io/gorm"
)

// MedicalRecord represents a patient's medical record entry
type MedicalRecord struct {
	gorm.Model
	UserID      string    `gorm:"type:uuid;index;not null" json:"userId"`
	PatientName string    `gorm:"not null" json:"patientName"`
	Diagnosis   string    `json:"diagnosis"`
	Treatment   string    `json:"treatment"`
	Date        time.Time `json:"date"`
}
