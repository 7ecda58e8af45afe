package service

import (
	"context"
	"testing"

	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/entity"
	redisrepo "staysure-portal-be/internal/repository/redis"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "unit-test-signing-secret"

func newAuthFixture(t *testing.T) (*fakeUowFactory, IAuthService) {
	t.Helper()
	factory := newFakeUowFactory()
	svc := NewAuthService(factory, &fakeMailer{}, redisrepo.NewSessionRepository(nil), nil, testJWTSecret)
	return factory, svc
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName:    "Maria Santos",
		Email:       "maria@example.com",
		Password:    "correct-horse",
		Phone:       "+63 917 555 0134",
		Nationality: "Philippines",
	}
}

func TestRegisterCreatesPendingUserWithOTP(t *testing.T) {
	factory, svc := newAuthFixture(t)

	res, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", res.Email)

	stored := factory.uow.users.users[res.Id]
	require.NotNil(t, stored)
	assert.Equal(t, entity.UserStatusPending, stored.Status)
	assert.False(t, stored.EmailVerified)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "correct-horse", *stored.PasswordHash)

	require.Len(t, factory.uow.users.verifyTokens, 1)
	for _, tok := range factory.uow.users.verifyTokens {
		assert.Equal(t, res.Id, tok.UserId)
		assert.Len(t, tok.Token, 6)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterEmailIsCaseSensitive(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	upper := registerRequest()
	upper.Email = "MARIA@example.com"
	_, err = svc.Register(context.Background(), upper)
	assert.NoError(t, err)
}

func TestVerifyEmailActivatesAccount(t *testing.T) {
	factory, svc := newAuthFixture(t)

	res, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	var otp string
	for _, tok := range factory.uow.users.verifyTokens {
		otp = tok.Token
	}

	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
		Email: res.Email,
		Token: otp,
	})
	require.NoError(t, err)

	stored := factory.uow.users.users[res.Id]
	assert.Equal(t, entity.UserStatusActive, stored.Status)
	assert.True(t, stored.EmailVerified)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	_, svc := newAuthFixture(t)

	res, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
		Email: res.Email,
		Token: "000000",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginLifecycle(t *testing.T) {
	factory, svc := newAuthFixture(t)

	res, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	login := &dto.LoginRequest{Email: res.Email, Password: "correct-horse"}

	// Not verified yet.
	_, err = svc.Login(context.Background(), login, "127.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	var otp string
	for _, tok := range factory.uow.users.verifyTokens {
		otp = tok.Token
	}
	require.NoError(t, svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: res.Email, Token: otp}))

	session, err := svc.Login(context.Background(), login, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Empty(t, session.RefreshToken)
	assert.Equal(t, res.Email, session.User.Email)

	// The token must verify against the injected secret, not some ambient
	// environment value.
	token, err := jwt.Parse(session.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, res.Id.String(), claims["user_id"])
	assert.Equal(t, "user", claims["role"])

	// Wrong password.
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: res.Email, Password: "nope"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown address must look the same as a wrong password.
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "nope"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Blocked accounts cannot sign in even with the right password.
	factory.uow.users.users[res.Id].Status = entity.UserStatusBlocked
	_, err = svc.Login(context.Background(), login, "", "")
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestLoginRememberMeMintsRefreshToken(t *testing.T) {
	factory, svc := newAuthFixture(t)

	res, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	var otp string
	for _, tok := range factory.uow.users.verifyTokens {
		otp = tok.Token
	}
	require.NoError(t, svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: res.Email, Token: otp}))

	session, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:      res.Email,
		Password:   "correct-horse",
		RememberMe: true,
	}, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, session.RefreshToken)

	// The raw token never hits the store, only its hash.
	require.Len(t, factory.uow.users.refreshTokens, 1)
	for hash := range factory.uow.users.refreshTokens {
		assert.NotEqual(t, session.RefreshToken, hash)
	}

	// Logout revokes it.
	require.NoError(t, svc.Logout(context.Background(), res.Id.String(), session.RefreshToken))
	for _, tok := range factory.uow.users.refreshTokens {
		assert.True(t, tok.Revoked)
	}
}

func TestLoginAdminRejectsRegularUsers(t *testing.T) {
	factory, svc := newAuthFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)

	user := &entity.User{
		Id:            uuid.New(),
		Email:         "regular@example.com",
		PasswordHash:  &hashStr,
		FullName:      "Regular Person",
		Role:          entity.UserRoleUser,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
	}
	admin := &entity.User{
		Id:            uuid.New(),
		Email:         "ops@staysure.example",
		PasswordHash:  &hashStr,
		FullName:      "Portal Admin",
		Role:          entity.UserRoleAdmin,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
	}
	factory.uow.users.add(user)
	factory.uow.users.add(admin)

	_, err = svc.LoginAdmin(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "hunter2hunter2"}, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	session, err := svc.LoginAdmin(context.Background(), &dto.LoginRequest{Email: admin.Email, Password: "hunter2hunter2"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.User.Role)
}

func TestForgotPasswordDoesNotLeakExistence(t *testing.T) {
	_, svc := newAuthFixture(t)

	err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.NoError(t, err)
}

func TestResetPasswordFlow(t *testing.T) {
	factory, svc := newAuthFixture(t)

	res, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: res.Email}))

	var token string
	for _, tok := range factory.uow.users.resetTokens {
		token = tok.Token
	}
	require.NotEmpty(t, token)

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "brand-new-pass",
		ConfirmPassword: "brand-new-pass",
	})
	require.NoError(t, err)

	stored := factory.uow.users.users[res.Id]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("brand-new-pass")))

	// Tokens are single use.
	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "another-pass-99",
		ConfirmPassword: "another-pass-99",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
