package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/identity"
	"nanocart/internal/model"
	"nanocart/internal/repository"
	"nanocart/internal/sms"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuthRepository interface {
	UpsertOTP(ctx context.Context, rec *model.OTPRecord) error
	FindOTPByPhone(ctx context.Context, phone string) (*model.OTPRecord, error)
	MarkOTPVerified(ctx context.Context, phone string, until time.Time) error
	InsertRefreshToken(ctx context.Context, t *model.RefreshToken) error
	FindActiveRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeactivateRefreshToken(ctx context.Context, token string) error
	DeactivateAllForOwner(ctx context.Context, ownerID primitive.ObjectID) error
}

// Errores de negocio del flujo de autenticación
var (
	ErrPhoneMismatch        = errors.New("la aserción de identidad no corresponde al teléfono informado")
	ErrOTPExpired           = errors.New("el OTP está vencido")
	ErrOTPNotVerified       = errors.New("el teléfono no fue verificado con OTP")
	ErrOTPNotRequested      = errors.New("no hay OTP pedido para ese teléfono")
	ErrInactiveSubAdmin     = errors.New("la cuenta de subadmin está inactiva")
	ErrInactivePartner      = errors.New("el partner no está verificado o está inactivo")
	ErrInvalidRefresh       = errors.New("refresh token inválido o rotado")
	ErrRefreshExpired       = errors.New("refresh token vencido")
	ErrUnknownRole          = errors.New("rol desconocido")
	ErrPartnerNotRegistered = errors.New("no existe un partner con ese teléfono")
)

// Ventana en la que el "teléfono verificado" habilita el login posterior.
const verifiedWindow = 10 * time.Minute

type AuthService struct {
	users    UserRepository
	partners PartnerRepository
	repo     AuthRepository
	otp      sms.OTPProvider
	verifier identity.Verifier
	log      *zap.Logger

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	users UserRepository,
	partners PartnerRepository,
	repo AuthRepository,
	otp sms.OTPProvider,
	verifier identity.Verifier,
	log *zap.Logger,
	secret string,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:      users,
		partners:   partners,
		repo:       repo,
		otp:        otp,
		verifier:   verifier,
		log:        log,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// ---- Path A: aserción federada ----

// FederatedLogin valida la aserción contra el proveedor externo. El
// teléfono verificado por el proveedor tiene que ser el mismo que vino
// en el request; si no, se rechaza. Primer contacto crea el perfil.
func (s *AuthService) FederatedLogin(ctx context.Context, req dto.FederatedLoginRequest) (*dto.SessionResponse, error) {
	uid, phone, err := s.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}
	if phone == "" || phone != req.Phone {
		return nil, ErrPhoneMismatch
	}

	isNew := false
	user, err := s.users.FindByPhone(ctx, phone)
	if err == repository.ErrNotFound {
		user = &model.User{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           phone,
			Role:            model.RoleUser,
			IsActive:        true,
			IsPhoneVerified: true,
			FirebaseUID:     uid,
		}
		if err := s.users.Insert(ctx, user); err != nil {
			return nil, err
		}
		isNew = true
	} else if err != nil {
		return nil, err
	}

	session, err := s.issueSession(ctx, user.ID, user.Role, true)
	if err != nil {
		return nil, err
	}
	session.IsNewUser = isNew
	return session, nil
}

// ---- Path B: flujo OTP ----

// SendOTP despacha el código por el proveedor y guarda sólo el marcador
// de sesión con su vencimiento.
func (s *AuthService) SendOTP(ctx context.Context, phone string) (*model.OTPRecord, error) {
	sessionID, expiresAt, err := s.otp.Send(ctx, phone)
	if err != nil {
		return nil, err
	}

	rec := &model.OTPRecord{
		Phone:     phone,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.UpsertOTP(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *AuthService) ResendOTP(ctx context.Context, phone string, voice bool) error {
	rec, err := s.repo.FindOTPByPhone(ctx, phone)
	if err == repository.ErrNotFound {
		return ErrOTPNotRequested
	}
	if err != nil {
		return err
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		return ErrOTPExpired
	}
	return s.otp.Resend(ctx, phone, rec.SessionID, voice)
}

// VerifyOTP consume el código contra el proveedor. El vencimiento del
// registro manda: un OTP vencido se rechaza aunque el código fuera correcto.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) error {
	rec, err := s.repo.FindOTPByPhone(ctx, phone)
	if err == repository.ErrNotFound {
		return ErrOTPNotRequested
	}
	if err != nil {
		return err
	}

	if time.Now().UTC().After(rec.ExpiresAt) {
		return ErrOTPExpired
	}

	if err := s.otp.Verify(ctx, rec.SessionID, code); err != nil {
		return err
	}

	until := time.Now().UTC().Add(verifiedWindow)
	return s.repo.MarkOTPVerified(ctx, phone, until)
}

// OTPLogin emite la sesión después de una verificación OTP vigente.
func (s *AuthService) OTPLogin(ctx context.Context, req dto.OTPLoginRequest) (*dto.SessionResponse, error) {
	rec, err := s.repo.FindOTPByPhone(ctx, req.Phone)
	if err == repository.ErrNotFound {
		return nil, ErrOTPNotVerified
	}
	if err != nil {
		return nil, err
	}
	if !rec.Verified {
		return nil, ErrOTPNotVerified
	}
	if time.Now().UTC().After(rec.VerifiedUntil) {
		return nil, ErrOTPExpired
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, ErrUnknownRole
	}

	// Partner no usa perfil de usuario: se gatea contra su propio perfil.
	if role == model.RolePartner {
		return s.partnerSession(ctx, req.Phone)
	}

	isNew := false
	user, err := s.users.FindByPhone(ctx, req.Phone)
	if err == repository.ErrNotFound {
		if role != model.RoleUser {
			// Admin y SubAdmin no se auto-registran por OTP.
			return nil, ErrForbidden
		}
		user = &model.User{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Role:            model.RoleUser,
			IsActive:        true,
			IsPhoneVerified: true,
		}
		if err := s.users.Insert(ctx, user); err != nil {
			return nil, err
		}
		isNew = true
	} else if err != nil {
		return nil, err
	}

	session, err := s.sessionForRole(ctx, user, role)
	if err != nil {
		return nil, err
	}
	session.IsNewUser = isNew
	return session, nil
}

// sessionForRole ramifica la emisión según el rol pedido, chequeando los
// flags que cada variante exige.
func (s *AuthService) sessionForRole(ctx context.Context, user *model.User, role model.Role) (*dto.SessionResponse, error) {
	switch role {
	case model.RoleUser:
		return s.issueSession(ctx, user.ID, model.RoleUser, false)
	case model.RoleAdmin:
		if user.Role != model.RoleAdmin {
			return nil, ErrForbidden
		}
		return s.issueSession(ctx, user.ID, model.RoleAdmin, true)
	case model.RoleSubAdmin:
		if user.Role != model.RoleSubAdmin {
			return nil, ErrForbidden
		}
		if !user.IsActive {
			return nil, ErrInactiveSubAdmin
		}
		return s.issueSession(ctx, user.ID, model.RoleSubAdmin, true)
	case model.RolePartner:
		return s.partnerSession(ctx, user.Phone)
	}
	return nil, ErrUnknownRole
}

func (s *AuthService) partnerSession(ctx context.Context, phone string) (*dto.SessionResponse, error) {
	partner, err := s.partners.FindByPhone(ctx, phone)
	if err == repository.ErrNotFound {
		return nil, ErrPartnerNotRegistered
	}
	if err != nil {
		return nil, err
	}
	if !partner.IsVerified || !partner.IsActive {
		return nil, ErrInactivePartner
	}
	return s.issueSession(ctx, partner.ID, model.RolePartner, false)
}

// ---- Emisión y rotación de credenciales ----

// Claims por rol: un constructor por variante, chequeado exhaustivamente.
func claimsFor(role model.Role, ownerID primitive.ObjectID, ttl time.Duration) jwt.MapClaims {
	now := time.Now().UTC()
	base := jwt.MapClaims{
		"sub": ownerID.Hex(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	switch role {
	case model.RoleUser:
		base["role"] = string(model.RoleUser)
	case model.RoleAdmin:
		base["role"] = string(model.RoleAdmin)
		base["admin"] = true
	case model.RoleSubAdmin:
		base["role"] = string(model.RoleSubAdmin)
		base["admin"] = true
		base["scoped"] = true
	case model.RolePartner:
		base["role"] = string(model.RolePartner)
		base["partner"] = true
	}
	return base
}

// issueSession firma el access token y, si corresponde al flujo, persiste
// un refresh token opaco.
func (s *AuthService) issueSession(ctx context.Context, ownerID primitive.ObjectID, role model.Role, withRefresh bool) (*dto.SessionResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsFor(role, ownerID, s.accessTTL))
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionResponse{
		AccessToken: signed,
		Role:        string(role),
		UserID:      ownerID.Hex(),
	}

	if withRefresh {
		opaque, err := opaqueToken()
		if err != nil {
			return nil, err
		}
		rec := &model.RefreshToken{
			OwnerID:   ownerID,
			Token:     opaque,
			Role:      role,
			ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
		}
		if err := s.repo.InsertRefreshToken(ctx, rec); err != nil {
			return nil, err
		}
		res.RefreshToken = opaque
	}

	return res, nil
}

// Refresh rota el refresh token: el viejo queda inactivo y sale un par nuevo.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.SessionResponse, error) {
	rec, err := s.repo.FindActiveRefreshToken(ctx, refreshToken)
	if err == repository.ErrNotFound {
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		return nil, ErrRefreshExpired
	}

	if err := s.repo.DeactivateRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, rec.OwnerID, rec.Role, true)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.repo.DeactivateRefreshToken(ctx, refreshToken)
	if err == repository.ErrNotFound {
		return ErrInvalidRefresh
	}
	return err
}

// ParseAccessToken valida la firma y devuelve los claims.
func (s *AuthService) ParseAccessToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func opaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
