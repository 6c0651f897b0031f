package service

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"medlink.com/internal/auth"
	"medlink.com/internal/config"
	"medlink.com/internal/domain"
	"medlink.com/internal/model"
)

// Credential failures on the login path share one message so responses
// never reveal whether the identifier or the password was wrong.
const msgInvalidCredentials = "Invalid identifier or password"

// lookupColumns whitelists the user columns a login identifier may be
// matched against; config values outside this set are ignored.
var lookupColumns = map[string]bool{
	"email":    true,
	"username": true,
	"nic":      true,
	"tel":      true,
}

// AccountServiceImpl implements domain.AccountService over a GORM store.
type AccountServiceImpl struct {
	db     *gorm.DB
	cfg    *config.Config
	secret []byte
}

// NewAccountService creates the account service.
func NewAccountService(db *gorm.DB, cfg *config.Config, secret []byte) *AccountServiceImpl {
	return &AccountServiceImpl{db: db, cfg: cfg, secret: secret}
}

// emailOnly reports whether the legacy email-only login contract is
// configured, which also enables the email-format precondition.
func (s *AccountServiceImpl) emailOnly() bool {
	fields := s.cfg.Auth.LoginFields
	return len(fields) == 1 && fields[0] == "email"
}

// ValidateLogin runs the login pipeline: preconditions, one lookup over
// the configured identifier columns, the active check, the hash
// comparison, a best-effort lastLogin write, and token issuance.
func (s *AccountServiceImpl) ValidateLogin(ctx context.Context, identifier, password string) (*model.User, string, error) {
	if identifier == "" || password == "" {
		return nil, "", domain.NewBadRequestError("Identifier and password are required")
	}
	if s.emailOnly() {
		if _, err := mail.ParseAddress(identifier); err != nil {
			return nil, "", domain.NewBadRequestError("Invalid email format")
		}
	}

	var conds []string
	var args []interface{}
	for _, field := range s.cfg.Auth.LoginFields {
		if !lookupColumns[field] {
			continue
		}
		conds = append(conds, field+" = ?")
		args = append(args, identifier)
	}
	if len(conds) == 0 {
		return nil, "", domain.NewInternalError("no login lookup fields configured", nil)
	}

	var user model.User
	err := s.db.WithContext(ctx).Where(strings.Join(conds, " OR "), args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", domain.NewUnauthorizedError(msgInvalidCredentials)
	}
	if err != nil {
		return nil, "", domain.NewInternalError("failed to look up user", err)
	}

	if !user.IsActive {
		return nil, "", domain.NewForbiddenError("User account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", domain.NewUnauthorizedError(msgInvalidCredentials)
	}

	// Best-effort bookkeeping; a failed timestamp write must not block
	// an otherwise valid login.
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		log.Printf("AccountService: failed to record last login for user %s: %v", user.ID, err)
	}
	user.LastLogin = &now

	validity := time.Duration(s.cfg.JWT.ExpirationHours) * time.Hour
	token, err := auth.GenerateToken(&user, s.secret, validity)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to sign token", err)
	}

	return &user, token, nil
}

// ValidateRegistration runs the registration pipeline and returns a
// sanitized, unsaved profile: structural checks, uniqueness existence
// queries, role normalization, date parsing, and password hashing. It
// performs no write.
func (s *AccountServiceImpl) ValidateRegistration(ctx context.Context, input *domain.RegistrationInput) (*model.User, error) {
	if input.Email == "" || input.Password == "" || input.ConfirmPassword == "" || input.Name == "" {
		return nil, domain.NewBadRequestError("Email, password, and name are required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domain.NewBadRequestError("Invalid email format")
	}
	if len(input.Password) < 6 {
		return nil, domain.NewBadRequestError("Password must be at least 6 characters long")
	}
	if input.Password != input.ConfirmPassword {
		return nil, domain.NewBadRequestError("Passwords do not match")
	}

	// Independent existence queries, each short-circuiting on first hit.
	// The store's unique indexes remain the authoritative guard; a racing
	// insert is mapped to the same conflict class in CreateUser.
	checks := []struct {
		column string
		value  string
		msg    string
	}{
		{"email", input.Email, "User with this email already exists"},
		{"username", input.Username, "User with this username already exists"},
		{"nic", input.NIC, "User with this NIC already exists"},
		{"physician_id", input.PhysicianID, "User with this physician ID already exists"},
	}
	for _, check := range checks {
		if check.value == "" {
			continue
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.User{}).
			Where(check.column+" = ?", check.value).Count(&count).Error; err != nil {
			return nil, domain.NewInternalError("failed to check "+check.column+" uniqueness", err)
		}
		if count > 0 {
			return nil, domain.NewConflictError(check.msg)
		}
	}

	role, ok := model.NormalizeRole(input.Role)
	if !ok {
		return nil, domain.NewBadRequestError("Invalid role, allowed values: " + strings.Join(model.AllRoles, ", "))
	}

	var birthDay *time.Time
	if input.BirthDay != "" {
		parsed, err := time.Parse("2006-01-02", input.BirthDay)
		if err != nil {
			return nil, domain.NewBadRequestError("Invalid birthDay format, expected YYYY-MM-DD")
		}
		birthDay = &parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	return &model.User{
		Email:       input.Email,
		Username:    optional(input.Username),
		NIC:         optional(input.NIC),
		PhysicianID: optional(input.PhysicianID),
		Tel:         optional(input.Tel),
		Password:    string(hashed),
		Name:        input.Name,
		Role:        role,
		BirthDay:    birthDay,
		AddressID:   input.AddressID,
		IsActive:    true,
	}, nil
}

// CreateUser persists a sanitized profile. A unique-constraint violation
// racing past the validator's checks is a conflict, not an internal fault.
func (s *AccountServiceImpl) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("User already exists")
		}
		return domain.NewInternalError("failed to create user", err)
	}
	log.Printf("AccountService: created user %s (role %s)", user.ID, user.Role)
	return nil
}

// GetUser fetches a user by ID.
func (s *AccountServiceImpl) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch user", err)
	}
	return &user, nil
}

// Fixed identity used by integration tests against non-production
// deployments.
const (
	testPatientEmail    = "test.patient@medlink.dev"
	testPatientPassword = "testpatient1"
)

// EnsureTestPatient idempotently provisions the diagnostic patient
// account. Callers gate this to non-production environments.
func (s *AccountServiceImpl) EnsureTestPatient(ctx context.Context) (*model.User, error) {
	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", testPatientEmail).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewInternalError("failed to look up test patient", err)
	}

	sanitized, err2 := s.ValidateRegistration(ctx, &domain.RegistrationInput{
		Email:           testPatientEmail,
		Password:        testPatientPassword,
		ConfirmPassword: testPatientPassword,
		Name:            "Test Patient",
		Role:            model.RolePatient,
	})
	if err2 != nil {
		return nil, err2
	}
	if err := s.CreateUser(ctx, sanitized); err != nil {
		return nil, err
	}
	return sanitized, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
