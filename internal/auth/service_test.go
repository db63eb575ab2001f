package auth

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgauth "github.com/aviral-workprojects/krishi-connect/pkg/auth"
	"github.com/aviral-workprojects/krishi-connect/pkg/config"
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'buyer',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func newAuthService(t *testing.T) Service {
	t.Helper()

	db := setupAuthTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(NewRepository(db), testJWTConfig(), testPasswordConfig(), logg)
	require.NoError(t, err)
	return svc
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-key",
		Issuer:            "krishi-connect-test",
		ExpirationMinutes: 60,
	}
}

// Small argon2id parameters keep the suite fast.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "plowshare9",
		Role:     "farmer",
	}
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, enums.RoleFarmer, result.User.Role)
	require.Equal(t, "asha@example.com", result.User.Email)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, enums.RoleFarmer, claims.Role)
}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc := newAuthService(t)

	first, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", first.User.Email)

	dup := registerInput()
	dup.Email = "  ASHA@Example.COM "
	_, err = svc.Register(context.Background(), dup)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newAuthService(t)

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"blank name", func(in *RegisterInput) { in.Name = "  " }},
		{"blank email", func(in *RegisterInput) { in.Email = "" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"unknown role", func(in *RegisterInput) { in.Role = "wholesaler" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := registerInput()
			tc.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed, "expected typed error, got %v", err)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestLoginAcceptsCorrectPassword(t *testing.T) {
	svc := newAuthService(t)

	registered, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "ASHA@example.com",
		Password: "plowshare9",
	})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, result.User.ID)
	require.NotEmpty(t, result.Token)
}

func TestLoginRejectsWrongPasswordAndUnknownEmailAlike(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, wrongPass := svc.Login(context.Background(), LoginInput{
		Email:    "asha@example.com",
		Password: "not-the-password",
	})
	_, unknown := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "plowshare9",
	})

	for _, err := range []error{wrongPass, unknown} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		require.Equal(t, "invalid credentials", typed.Message())
	}
}

func TestProfileReturnsStoredUser(t *testing.T) {
	svc := newAuthService(t)

	registered, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dto, err := svc.Profile(context.Background(), registered.User.ID)
	require.NoError(t, err)
	require.Equal(t, registered.User.Email, dto.Email)
	require.Equal(t, registered.User.Role, dto.Role)
}
