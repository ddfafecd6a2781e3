package service

import (
	"context"
	"testing"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/repository"
	"nanocart/internal/sms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type authServiceMocks struct {
	users    *MockUserRepository
	partners *MockPartnerRepository
	repo     *MockAuthRepository
	otp      *MockOTPProvider
	verifier *MockVerifier
}

func newTestAuthService() (*AuthService, *authServiceMocks) {
	m := &authServiceMocks{
		users:    new(MockUserRepository),
		partners: new(MockPartnerRepository),
		repo:     new(MockAuthRepository),
		otp:      new(MockOTPProvider),
		verifier: new(MockVerifier),
	}
	svc := NewAuthService(
		m.users, m.partners, m.repo, m.otp, m.verifier, zap.NewNop(),
		"secreto-de-test", time.Hour, 30*24*time.Hour,
	)
	return svc, m
}

func TestFederatedLoginCreatesProfileOnFirstContact(t *testing.T) {
	svc, m := newTestAuthService()

	m.verifier.On("VerifyIDToken", mock.Anything, "token-valido").Return("uid-123", "+541100000001", nil)
	m.users.On("FindByPhone", mock.Anything, "+541100000001").Return(nil, repository.ErrNotFound)
	m.users.On("Insert", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Phone == "+541100000001" && u.IsPhoneVerified && u.FirebaseUID == "uid-123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = primitive.NewObjectID()
	}).Return(nil)
	m.repo.On("InsertRefreshToken", mock.Anything, mock.Anything).Return(nil)

	session, err := svc.FederatedLogin(context.Background(), dto.FederatedLoginRequest{
		IDToken: "token-valido",
		Phone:   "+541100000001",
		Name:    "Iris",
	})
	assert.NoError(t, err)
	assert.True(t, session.IsNewUser)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, string(model.RoleUser), session.Role)
}

func TestFederatedLoginRejectsPhoneMismatch(t *testing.T) {
	svc, m := newTestAuthService()

	// El proveedor verificó otro teléfono que el declarado en el request.
	m.verifier.On("VerifyIDToken", mock.Anything, "token-valido").Return("uid-123", "+541100000009", nil)

	_, err := svc.FederatedLogin(context.Background(), dto.FederatedLoginRequest{
		IDToken: "token-valido",
		Phone:   "+541100000001",
	})
	assert.ErrorIs(t, err, ErrPhoneMismatch)
	m.users.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestVerifyOTPExpiredRecordWinsOverCode(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, "+541100000001").Return(&model.OTPRecord{
		Phone:     "+541100000001",
		SessionID: "ses-1",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}, nil)

	// Aunque el código fuera correcto, el registro vencido manda.
	err := svc.VerifyOTP(context.Background(), "+541100000001", "123456")
	assert.ErrorIs(t, err, ErrOTPExpired)
	m.otp.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, "+541100000001").Return(&model.OTPRecord{
		Phone:     "+541100000001",
		SessionID: "ses-1",
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}, nil)
	m.otp.On("Verify", mock.Anything, "ses-1", "000000").Return(sms.ErrCodeMismatch)

	err := svc.VerifyOTP(context.Background(), "+541100000001", "000000")
	assert.ErrorIs(t, err, sms.ErrCodeMismatch)
	m.repo.AssertNotCalled(t, "MarkOTPVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOTPMarksVerifiedWindow(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, "+541100000001").Return(&model.OTPRecord{
		Phone:     "+541100000001",
		SessionID: "ses-1",
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}, nil)
	m.otp.On("Verify", mock.Anything, "ses-1", "123456").Return(nil)
	m.repo.On("MarkOTPVerified", mock.Anything, "+541100000001", mock.MatchedBy(func(until time.Time) bool {
		return until.After(time.Now().UTC().Add(9 * time.Minute))
	})).Return(nil)

	err := svc.VerifyOTP(context.Background(), "+541100000001", "123456")
	assert.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestOTPLoginRequiresVerification(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, "+541100000001").Return(&model.OTPRecord{
		Phone:     "+541100000001",
		ExpiresAt: time.Now().UTC().Add(time.Minute),
		Verified:  false,
	}, nil)

	_, err := svc.OTPLogin(context.Background(), dto.OTPLoginRequest{Phone: "+541100000001"})
	assert.ErrorIs(t, err, ErrOTPNotVerified)
}

func TestOTPLoginExpiredVerificationWindow(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, "+541100000001").Return(&model.OTPRecord{
		Phone:         "+541100000001",
		Verified:      true,
		VerifiedUntil: time.Now().UTC().Add(-time.Second),
	}, nil)

	_, err := svc.OTPLogin(context.Background(), dto.OTPLoginRequest{Phone: "+541100000001"})
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPLoginAutoRegistersUserOnly(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, mock.Anything).Return(&model.OTPRecord{
		Verified:      true,
		VerifiedUntil: time.Now().UTC().Add(time.Minute),
	}, nil)
	m.users.On("FindByPhone", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	// Admin no se auto-registra por OTP.
	_, err := svc.OTPLogin(context.Background(), dto.OTPLoginRequest{
		Phone: "+541100000002",
		Role:  string(model.RoleAdmin),
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOTPLoginInactiveSubAdmin(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, mock.Anything).Return(&model.OTPRecord{
		Verified:      true,
		VerifiedUntil: time.Now().UTC().Add(time.Minute),
	}, nil)
	m.users.On("FindByPhone", mock.Anything, mock.Anything).Return(&model.User{
		ID:       primitive.NewObjectID(),
		Role:     model.RoleSubAdmin,
		IsActive: false,
	}, nil)

	_, err := svc.OTPLogin(context.Background(), dto.OTPLoginRequest{
		Phone: "+541100000003",
		Role:  string(model.RoleSubAdmin),
	})
	assert.ErrorIs(t, err, ErrInactiveSubAdmin)
}

func TestOTPLoginUnverifiedPartner(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, mock.Anything).Return(&model.OTPRecord{
		Verified:      true,
		VerifiedUntil: time.Now().UTC().Add(time.Minute),
	}, nil)
	m.partners.On("FindByPhone", mock.Anything, "+541100000004").Return(&model.Partner{
		ID:         primitive.NewObjectID(),
		IsVerified: false,
		IsActive:   true,
	}, nil)

	_, err := svc.OTPLogin(context.Background(), dto.OTPLoginRequest{
		Phone: "+541100000004",
		Role:  string(model.RolePartner),
	})
	assert.ErrorIs(t, err, ErrInactivePartner)
	// El flujo de partner nunca toca el perfil de usuario.
	m.users.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, m := newTestAuthService()
	ownerID := primitive.NewObjectID()

	m.repo.On("FindActiveRefreshToken", mock.Anything, "viejo").Return(&model.RefreshToken{
		OwnerID:   ownerID,
		Token:     "viejo",
		Role:      model.RoleUser,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		Active:    true,
	}, nil)
	m.repo.On("DeactivateRefreshToken", mock.Anything, "viejo").Return(nil)
	m.repo.On("InsertRefreshToken", mock.Anything, mock.MatchedBy(func(rec *model.RefreshToken) bool {
		return rec.OwnerID == ownerID && rec.Token != "viejo"
	})).Return(nil)

	session, err := svc.Refresh(context.Background(), "viejo")
	assert.NoError(t, err)
	assert.NotEmpty(t, session.RefreshToken)
	assert.NotEqual(t, "viejo", session.RefreshToken)
	m.repo.AssertExpectations(t)
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindActiveRefreshToken", mock.Anything, "vencido").Return(&model.RefreshToken{
		OwnerID:   primitive.NewObjectID(),
		Token:     "vencido",
		Role:      model.RoleUser,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}, nil)

	_, err := svc.Refresh(context.Background(), "vencido")
	assert.ErrorIs(t, err, ErrRefreshExpired)
	m.repo.AssertNotCalled(t, "DeactivateRefreshToken", mock.Anything, mock.Anything)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindActiveRefreshToken", mock.Anything, "inexistente").Return(nil, repository.ErrNotFound)

	_, err := svc.Refresh(context.Background(), "inexistente")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestParseAccessTokenRoundtrip(t *testing.T) {
	svc, m := newTestAuthService()
	ownerID := primitive.NewObjectID()

	m.repo.On("InsertRefreshToken", mock.Anything, mock.Anything).Return(nil)

	session, err := svc.issueSession(context.Background(), ownerID, model.RoleSubAdmin, true)
	assert.NoError(t, err)

	claims, err := svc.ParseAccessToken(session.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, ownerID.Hex(), claims["sub"])
	assert.Equal(t, string(model.RoleSubAdmin), claims["role"])
	assert.Equal(t, true, claims["admin"])
	assert.Equal(t, true, claims["scoped"])
}

func TestSendOTPPersistsSessionMarker(t *testing.T) {
	svc, m := newTestAuthService()
	expires := time.Now().UTC().Add(5 * time.Minute)

	m.otp.On("Send", mock.Anything, "+541100000005").Return("ses-9", expires, nil)
	m.repo.On("UpsertOTP", mock.Anything, mock.MatchedBy(func(rec *model.OTPRecord) bool {
		return rec.SessionID == "ses-9" && rec.ExpiresAt.Equal(expires)
	})).Return(nil)

	rec, err := svc.SendOTP(context.Background(), "+541100000005")
	assert.NoError(t, err)
	assert.Equal(t, "ses-9", rec.SessionID)
	m.repo.AssertExpectations(t)
}

func TestResendOTPWithoutPriorSend(t *testing.T) {
	svc, m := newTestAuthService()

	m.repo.On("FindOTPByPhone", mock.Anything, "+541100000006").Return(nil, repository.ErrNotFound)

	err := svc.ResendOTP(context.Background(), "+541100000006", false)
	assert.ErrorIs(t, err, ErrOTPNotRequested)
	m.otp.AssertNotCalled(t, "Resend", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
