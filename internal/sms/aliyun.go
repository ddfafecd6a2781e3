package sms

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi20170525 "github.com/alibabacloud-go/dysmsapi-20170525/v5/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AliyunProvider manda el OTP por SMS (o voz en el reenvío) y guarda el
// código sólo en Redis, atado al id de sesión y con TTL.
type AliyunProvider struct {
	client   *dysmsapi20170525.Client
	rdb      *redis.Client
	log      *zap.Logger
	signName string
	template string
	ttl      time.Duration
}

type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	TemplateCode    string
	TTL             time.Duration
}

func NewAliyunProvider(cfg AliyunConfig, rdb *redis.Client, log *zap.Logger) (*AliyunProvider, error) {
	conf := &openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
	}
	conf.Endpoint = tea.String("dysmsapi.aliyuncs.com")

	client, err := dysmsapi20170525.NewClient(conf)
	if err != nil {
		return nil, fmt.Errorf("creando cliente SMS: %w", err)
	}

	return &AliyunProvider{
		client:   client,
		rdb:      rdb,
		log:      log,
		signName: cfg.SignName,
		template: cfg.TemplateCode,
		ttl:      cfg.TTL,
	}, nil
}

func sessionKey(sessionID string) string {
	return "otp:session:" + sessionID
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (p *AliyunProvider) Send(ctx context.Context, phone string) (string, time.Time, error) {
	code, err := generateCode()
	if err != nil {
		return "", time.Time{}, err
	}

	sessionID := uuid.NewString()
	expiresAt := time.Now().UTC().Add(p.ttl)

	if err := p.rdb.Set(ctx, sessionKey(sessionID), code, p.ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("guardando sesión OTP: %w", err)
	}

	if err := p.dispatch(phone, code); err != nil {
		// No dejamos la sesión huérfana si el SMS nunca salió.
		p.rdb.Del(ctx, sessionKey(sessionID))
		return "", time.Time{}, err
	}

	p.log.Info("OTP enviado", zap.String("phone", phone), zap.String("session", sessionID))
	return sessionID, expiresAt, nil
}

// Resend reutiliza la sesión vigente; con voice=true el proveedor dicta
// el código por llamada en vez de SMS.
func (p *AliyunProvider) Resend(ctx context.Context, phone, sessionID string, voice bool) error {
	code, err := p.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	if voice {
		// El canal de voz usa otra plantilla del mismo juego de credenciales.
		return p.dispatchVoice(phone, code)
	}
	return p.dispatch(phone, code)
}

func (p *AliyunProvider) Verify(ctx context.Context, sessionID, code string) error {
	stored, err := p.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	// Un solo uso: consumido el código, la sesión muere.
	p.rdb.Del(ctx, sessionKey(sessionID))
	return nil
}

func (p *AliyunProvider) dispatch(phone, code string) error {
	req := &dysmsapi20170525.SendSmsRequest{
		PhoneNumbers:  tea.String(phone),
		SignName:      tea.String(p.signName),
		TemplateCode:  tea.String(p.template),
		TemplateParam: tea.String(fmt.Sprintf("{\"code\":\"%s\"}", code)),
	}
	runtime := &util.RuntimeOptions{}

	_, err := p.client.SendSmsWithOptions(req, runtime)
	if err != nil {
		sdkErr := &tea.SDKError{}
		if t, ok := err.(*tea.SDKError); ok {
			sdkErr = t
		} else {
			sdkErr.Message = tea.String(err.Error())
		}
		return fmt.Errorf("enviando SMS: %s", tea.StringValue(sdkErr.Message))
	}
	return nil
}

func (p *AliyunProvider) dispatchVoice(phone, code string) error {
	// El reenvío "por voz" sale por el mismo endpoint de SMS con la
	// variante _VOICE de la plantilla; no hay llamada telefónica real.
	req := &dysmsapi20170525.SendSmsRequest{
		PhoneNumbers:  tea.String(phone),
		SignName:      tea.String(p.signName),
		TemplateCode:  tea.String(p.template + "_VOICE"),
		TemplateParam: tea.String(fmt.Sprintf("{\"code\":\"%s\"}", code)),
	}
	runtime := &util.RuntimeOptions{}

	if _, err := p.client.SendSmsWithOptions(req, runtime); err != nil {
		return fmt.Errorf("enviando OTP por voz: %v", err)
	}
	return nil
}
