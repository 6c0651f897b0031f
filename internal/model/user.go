package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user account may hold.
const (
	RoleDoctor   = "doctor"
	RoleHospital = "hospital"
	RolePatient  = "patient"
	RolePharmacy = "pharmacy"
)

// AllRoles lists the accepted roles, used in validation error messages.
var AllRoles = []string{RoleDoctor, RoleHospital, RolePatient, RolePharmacy}

// NormalizeRole matches a submitted role case-insensitively against the
// accepted set. An empty value defaults to patient.
func NormalizeRole(role string) (string, bool) {
	if role == "" {
		return RolePatient, true
	}
	lower := strings.ToLower(role)
	for _, r := range AllRoles {
		if lower == r {
			return r, true
		}
	}
	return "", false
}

// User represents an account in the system. Optional identity fields are
// pointers so absent values persist as NULL and stay out of the unique
// indexes.
type User struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Username    *string    `gorm:"uniqueIndex" json:"username,omitempty"`
	NIC         *string    `gorm:"column:nic;uniqueIndex" json:"nic,omitempty"`
	PhysicianID *string    `gorm:"uniqueIndex" json:"physicianId,omitempty"`
	Tel         *string    `gorm:"uniqueIndex" json:"tel,omitempty"`
	Password    string     `gorm:"not null" json:"-"` // Stored as bcrypt hash, never serialized
	Name        string     `gorm:"not null" json:"name"`
	Role        string     `gorm:"default:'patient'" json:"role"`
	BirthDay    *time.Time `json:"birthDay,omitempty"`
	AddressID   *uint      `json:"addressId,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the store-generated identifier.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
