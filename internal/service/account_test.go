package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"medlink.com/internal/auth"
	"medlink.com/internal/config"
	"medlink.com/internal/domain"
	"medlink.com/internal/model"
)

var testSecret = []byte("account-test-secret")

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{ExpirationHours: 1},
		Auth: config.AuthConfig{
			// MinCost keeps the suite fast; production default is 10
			BcryptCost:  bcrypt.MinCost,
			LoginFields: []string{"email", "username", "nic", "tel"},
		},
	}
}

func newAccountService(t *testing.T) (*AccountServiceImpl, *gorm.DB) {
	t.Helper()
	db := setupDB(t)
	return NewAccountService(db, testConfig(), testSecret), db
}

func baseInput() *domain.RegistrationInput {
	return &domain.RegistrationInput{
		Email:           "a@b.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Name:            "A",
	}
}

func mustRegister(t *testing.T, svc *AccountServiceImpl, input *domain.RegistrationInput) *model.User {
	t.Helper()
	sanitized, err := svc.ValidateRegistration(context.Background(), input)
	require.NoError(t, err)
	require.NoError(t, svc.CreateUser(context.Background(), sanitized))
	return sanitized
}

func asAppErr(t *testing.T, err error) *domain.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func userCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	return count
}

func TestValidateRegistration_StructuralFailures(t *testing.T) {
	svc, _ := newAccountService(t)

	tests := []struct {
		name    string
		mutate  func(*domain.RegistrationInput)
		message string
	}{
		{"missing email", func(in *domain.RegistrationInput) { in.Email = "" }, "Email, password, and name are required"},
		{"missing password", func(in *domain.RegistrationInput) { in.Password = "" }, "Email, password, and name are required"},
		{"missing confirm", func(in *domain.RegistrationInput) { in.ConfirmPassword = "" }, "Email, password, and name are required"},
		{"missing name", func(in *domain.RegistrationInput) { in.Name = "" }, "Email, password, and name are required"},
		{"malformed email", func(in *domain.RegistrationInput) { in.Email = "not-an-email" }, "Invalid email format"},
		{"short password", func(in *domain.RegistrationInput) {
			in.Password = "abc"
			in.ConfirmPassword = "abc"
		}, "Password must be at least 6 characters long"},
		{"password mismatch", func(in *domain.RegistrationInput) { in.ConfirmPassword = "secret2" }, "Passwords do not match"},
		{"bad birth day", func(in *domain.RegistrationInput) { in.BirthDay = "31-12-1990" }, "Invalid birthDay format, expected YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			tt.mutate(input)

			_, err := svc.ValidateRegistration(context.Background(), input)
			appErr := asAppErr(t, err)
			assert.Equal(t, 400, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestValidateRegistration_SanitizesProfile(t *testing.T) {
	svc, _ := newAccountService(t)

	input := baseInput()
	input.Username = "alice"
	input.BirthDay = "1990-12-31"

	sanitized, err := svc.ValidateRegistration(context.Background(), input)
	require.NoError(t, err)

	// Hash, never the plaintext; re-verifiable against the original
	assert.NotEqual(t, input.Password, sanitized.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(sanitized.Password), []byte(input.Password)))

	assert.Equal(t, model.RolePatient, sanitized.Role)
	assert.True(t, sanitized.IsActive)

	require.NotNil(t, sanitized.Username)
	assert.Equal(t, "alice", *sanitized.Username)
	assert.Nil(t, sanitized.NIC)
	assert.Nil(t, sanitized.PhysicianID)
	assert.Nil(t, sanitized.Tel)

	require.NotNil(t, sanitized.BirthDay)
	assert.Equal(t, 1990, sanitized.BirthDay.Year())
}

func TestValidateRegistration_RoleNormalization(t *testing.T) {
	svc, _ := newAccountService(t)

	input := baseInput()
	input.Role = "DOCTOR"
	sanitized, err := svc.ValidateRegistration(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, sanitized.Role)

	input = baseInput()
	input.Role = "nurse"
	_, err = svc.ValidateRegistration(context.Background(), input)
	appErr := asAppErr(t, err)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "doctor, hospital, patient, pharmacy")
}

func TestValidateRegistration_DuplicateFields(t *testing.T) {
	svc, db := newAccountService(t)

	first := baseInput()
	first.Username = "alice"
	first.NIC = "901231123V"
	first.PhysicianID = "PHY-100"
	mustRegister(t, svc, first)

	tests := []struct {
		name    string
		mutate  func(*domain.RegistrationInput)
		message string
	}{
		{"email", func(in *domain.RegistrationInput) {}, "User with this email already exists"},
		{"username", func(in *domain.RegistrationInput) {
			in.Email = "b@b.com"
			in.Username = "alice"
		}, "User with this username already exists"},
		{"nic", func(in *domain.RegistrationInput) {
			in.Email = "b@b.com"
			in.NIC = "901231123V"
		}, "User with this NIC already exists"},
		{"physician id", func(in *domain.RegistrationInput) {
			in.Email = "b@b.com"
			in.PhysicianID = "PHY-100"
		}, "User with this physician ID already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			tt.mutate(input)

			_, err := svc.ValidateRegistration(context.Background(), input)
			appErr := asAppErr(t, err)
			assert.Equal(t, 409, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.EqualValues(t, 1, userCount(t, db))
		})
	}
}

func TestCreateUser_RacingDuplicateMapsToConflict(t *testing.T) {
	// A second insert slipping past the existence checks must surface as
	// a conflict via the store's unique index, not an internal fault.
	svc, db := newAccountService(t)

	a, err := svc.ValidateRegistration(context.Background(), baseInput())
	require.NoError(t, err)
	b, err := svc.ValidateRegistration(context.Background(), baseInput())
	require.NoError(t, err)

	require.NoError(t, svc.CreateUser(context.Background(), a))
	err = svc.CreateUser(context.Background(), b)
	appErr := asAppErr(t, err)
	assert.Equal(t, 409, appErr.Code)
	assert.EqualValues(t, 1, userCount(t, db))
}

func TestValidateLogin_Success(t *testing.T) {
	svc, db := newAccountService(t)
	created := mustRegister(t, svc, baseInput())

	start := time.Now().Add(-time.Second)
	user, token, err := svc.ValidateLogin(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, model.RolePatient, claims.Role)

	var stored model.User
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	require.NotNil(t, stored.LastLogin)
	assert.True(t, stored.LastLogin.After(start))
}

func TestValidateLogin_EnumerationResistance(t *testing.T) {
	svc, _ := newAccountService(t)
	mustRegister(t, svc, baseInput())

	_, _, wrongPass := svc.ValidateLogin(context.Background(), "a@b.com", "wrong-password")
	_, _, noUser := svc.ValidateLogin(context.Background(), "nobody@b.com", "secret1")

	wrongErr := asAppErr(t, wrongPass)
	noUserErr := asAppErr(t, noUser)

	assert.Equal(t, 401, wrongErr.Code)
	assert.Equal(t, wrongErr.Code, noUserErr.Code)
	assert.Equal(t, wrongErr.Message, noUserErr.Message)
}

func TestValidateLogin_DeactivatedAccount(t *testing.T) {
	svc, db := newAccountService(t)
	created := mustRegister(t, svc, baseInput())

	require.NoError(t, db.Model(&model.User{}).Where("id = ?", created.ID).
		Update("is_active", false).Error)

	_, _, err := svc.ValidateLogin(context.Background(), "a@b.com", "secret1")
	appErr := asAppErr(t, err)
	assert.Equal(t, 403, appErr.Code)
	assert.NotEqual(t, msgInvalidCredentials, appErr.Message)
}

func TestValidateLogin_AlternateIdentifiers(t *testing.T) {
	svc, _ := newAccountService(t)

	input := baseInput()
	input.Username = "alice"
	input.NIC = "901231123V"
	input.Tel = "+94771234567"
	mustRegister(t, svc, input)

	for _, identifier := range []string{"alice", "901231123V", "+94771234567", "a@b.com"} {
		user, token, err := svc.ValidateLogin(context.Background(), identifier, "secret1")
		require.NoError(t, err, "identifier %q", identifier)
		assert.NotNil(t, user)
		assert.NotEmpty(t, token)
	}
}

func TestValidateLogin_MissingInput(t *testing.T) {
	svc, _ := newAccountService(t)

	for _, tc := range [][2]string{{"", "secret1"}, {"a@b.com", ""}, {"", ""}} {
		_, _, err := svc.ValidateLogin(context.Background(), tc[0], tc[1])
		appErr := asAppErr(t, err)
		assert.Equal(t, 400, appErr.Code)
	}
}

func TestValidateLogin_LegacyEmailOnlyContract(t *testing.T) {
	db := setupDB(t)
	cfg := testConfig()
	cfg.Auth.LoginFields = []string{"email"}
	svc := NewAccountService(db, cfg, testSecret)

	input := baseInput()
	input.Username = "alice"
	mustRegister(t, svc, input)

	// Non-address identifiers fail the format precondition in this mode
	_, _, err := svc.ValidateLogin(context.Background(), "alice", "secret1")
	appErr := asAppErr(t, err)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Invalid email format", appErr.Message)

	_, _, err = svc.ValidateLogin(context.Background(), "a@b.com", "secret1")
	assert.NoError(t, err)
}

func TestEnsureTestPatient_Idempotent(t *testing.T) {
	svc, db := newAccountService(t)

	first, err := svc.EnsureTestPatient(context.Background())
	require.NoError(t, err)
	second, err := svc.EnsureTestPatient(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.RolePatient, first.Role)
	assert.EqualValues(t, 1, userCount(t, db))
}
