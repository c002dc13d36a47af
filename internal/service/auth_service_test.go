package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"visaprep/internal/config"
	"visaprep/internal/domain"
	"visaprep/internal/service"
	"visaprep/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-not-for-production",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "visaprep-test",
	}
}

func activeUser(password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return &domain.User{
		ID:           uuid.New(),
		Email:        "john@example.com",
		PasswordHash: string(hash),
		FullName:     "John Smith",
		IsActive:     true,
	}
}

func TestRegister(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	var created *domain.User
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "  John@Example.COM ",
		Password: "hunter2hunter2",
		FullName: " John Smith ",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "john@example.com", user.Email)
	assert.Equal(t, "John Smith", user.FullName)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "john@example.com",
		Password: "hunter2hunter2",
		FullName: "John Smith",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestLogin(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())
	user := activeUser("hunter2hunter2")

	userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "John@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(activeUser("hunter2hunter2"), nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "john@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@example.com",
		Password: "hunter2hunter2",
	})
	// Unknown email and bad password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())
	user := activeUser("hunter2hunter2")
	user.IsActive = false

	userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "john@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefreshToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())
	user := activeUser("hunter2hunter2")

	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	next, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	claims, err := svc.ValidateToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())
	user := activeUser("hunter2hunter2")

	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	// An access token must not be usable as a refresh token.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateToken_RefreshTokenRejected(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())
	user := activeUser("hunter2hunter2")

	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), testJWTConfig())
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	user := activeUser("hunter2hunter2")
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	issuer := service.NewAuthService(userRepo, testJWTConfig())
	pair, err := issuer.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	verifier := service.NewAuthService(userRepo, otherCfg)

	_, err = verifier.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}
