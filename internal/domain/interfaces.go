package domain

import (
	"context"

	"medlink.com/internal/model"
)

// ===========================
// Account service interface
// ===========================

// RegistrationInput is the candidate profile submitted for registration,
// before validation and sanitization.
type RegistrationInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	Username        string `json:"username"`
	NIC             string `json:"nic"`
	PhysicianID     string `json:"physicianId"`
	Tel             string `json:"tel"`
	BirthDay        string `json:"birthDay"`
	AddressID       *uint  `json:"addressId"`
}

// AccountService defines the credential validation and account
// provisioning pipeline.
type AccountService interface {
	// Validate credentials, returning the resolved user and a signed token
	ValidateLogin(ctx context.Context, identifier, password string) (*model.User, string, error)
	// Validate and sanitize a registration payload; performs no write
	ValidateRegistration(ctx context.Context, input *RegistrationInput) (*model.User, error)
	// Persist a sanitized profile as a new active user
	CreateUser(ctx context.Context, user *model.User) error
	// Fetch a user by ID
	GetUser(ctx context.Context, id string) (*model.User, error)
	// Idempotently provision the fixed-identity diagnostic patient
	EnsureTestPatient(ctx context.Context) (*model.User, error)
}

// ===========================
// Clinic service interface
// ===========================

// ClinicService defines clinic directory operations.
type ClinicService interface {
	GetClinics(ctx context.Context, page, pageSize int) ([]model.Clinic, int64, error)
	GetClinic(ctx context.Context, id uint) (*model.Clinic, error)
	CreateClinic(ctx context.Context, clinic *model.Clinic) error
	UpdateClinic(ctx context.Context, id uint, updates map[string]interface{}) (*model.Clinic, error)
	DeleteClinic(ctx context.Context, id uint) error
}

// ===========================
// Record service interface
// ===========================

// RecordService defines medical record operations. Reads and writes are
// scoped by the caller's role: patients only reach their own records.
type RecordService interface {
	GetRecords(ctx context.Context, userID, role string, page, pageSize int) ([]model.MedicalRecord, int64, error)
	GetRecord(ctx context.Context, id uint, userID, role string) (*model.MedicalRecord, error)
	CreateRecord(ctx context.Context, record *model.MedicalRecord) error
	UpdateRecord(ctx context.Context, id uint, updates map[string]interface{}) (*model.MedicalRecord, error)
	DeleteRecord(ctx context.Context, id uint) error
}
