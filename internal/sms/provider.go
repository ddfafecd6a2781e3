package sms

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("sesión OTP no encontrada o vencida")
	ErrCodeMismatch    = errors.New("código OTP incorrecto")
)

// OTPProvider despacha y verifica códigos de un solo uso. El código
// literal vive adentro del proveedor; hacia afuera sólo sale el marcador
// de sesión y su vencimiento.
type OTPProvider interface {
	Send(ctx context.Context, phone string) (sessionID string, expiresAt time.Time, err error)
	Resend(ctx context.Context, phone, sessionID string, voice bool) error
	Verify(ctx context.Context, sessionID, code string) error
}
