package controller

import (
	"errors"
	"net/http"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/identity"
	"nanocart/internal/response"
	"nanocart/internal/service"
	"nanocart/internal/sms"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(s *service.AuthService) *AuthController {
	return &AuthController{Service: s}
}

// POST /auth/login/federated — Path A
func (ctl *AuthController) FederatedLogin(c *gin.Context) {
	var req dto.FederatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := ctl.Service.FederatedLogin(c.Request.Context(), req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	status := http.StatusOK
	if session.IsNewUser {
		status = http.StatusCreated
	}
	response.OK(c, status, "login successful", session)
}

// POST /auth/otp/send
func (ctl *AuthController) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rec, err := ctl.Service.SendOTP(c.Request.Context(), req.Phone)
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "otp sent", dto.OTPStatusResponse{
		Phone:     rec.Phone,
		ExpiresAt: rec.ExpiresAt.Format(time.RFC3339),
	})
}

// POST /auth/otp/resend — voice=true dicta el código por llamada
func (ctl *AuthController) ResendOTP(c *gin.Context) {
	var req dto.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := ctl.Service.ResendOTP(c.Request.Context(), req.Phone, req.Voice); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "otp resent", nil)
}

// POST /auth/otp/verify
func (ctl *AuthController) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := ctl.Service.VerifyOTP(c.Request.Context(), req.Phone, req.Code); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "phone verified", nil)
}

// POST /auth/login/otp — Path B, después de verificar
func (ctl *AuthController) OTPLogin(c *gin.Context) {
	var req dto.OTPLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := ctl.Service.OTPLogin(c.Request.Context(), req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	status := http.StatusOK
	if session.IsNewUser {
		status = http.StatusCreated
	}
	response.OK(c, status, "login successful", session)
}

// POST /auth/refresh — rota el refresh token
func (ctl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := ctl.Service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "session refreshed", session)
}

// POST /auth/logout
func (ctl *AuthController) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := ctl.Service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "logged out", nil)
}

func (ctl *AuthController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidAssertion),
		errors.Is(err, service.ErrPhoneMismatch):
		response.ErrorWith(c, http.StatusUnauthorized, "identity verification failed", err)
	case errors.Is(err, service.ErrOTPExpired):
		// Recurso con ventana de tiempo ya vencido
		response.ErrorWith(c, http.StatusGone, "otp expired", err)
	case errors.Is(err, service.ErrOTPNotVerified),
		errors.Is(err, service.ErrOTPNotRequested),
		errors.Is(err, sms.ErrCodeMismatch),
		errors.Is(err, sms.ErrSessionNotFound):
		response.ErrorWith(c, http.StatusBadRequest, "otp not verified", err)
	case errors.Is(err, service.ErrInactiveSubAdmin),
		errors.Is(err, service.ErrInactivePartner),
		errors.Is(err, service.ErrPartnerNotRegistered),
		errors.Is(err, service.ErrForbidden):
		response.ErrorWith(c, http.StatusForbidden, "role check failed", err)
	case errors.Is(err, service.ErrInvalidRefresh),
		errors.Is(err, service.ErrRefreshExpired):
		response.ErrorWith(c, http.StatusUnauthorized, "refresh rejected", err)
	case errors.Is(err, service.ErrUnknownRole):
		response.ErrorWith(c, http.StatusBadRequest, "unknown role", err)
	default:
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
	}
}
