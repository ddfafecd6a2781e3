// config.go
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	Port        string

	RedisAddr     string
	RedisPassword string

	RabbitURL string

	JWTSecret       string
	AccessTokenTTL  int // horas
	RefreshTokenTTL int // horas

	SMSAccessKeyID     string
	SMSAccessKeySecret string
	SMSSignName        string
	SMSTemplateCode    string
	OTPTTLMinutes      int

	AWSRegion string
	S3Bucket  string

	FirebaseCredentialsFile string
}

func Load() *Config {
	// .env es opcional; en despliegue las variables vienen del entorno.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "nanocart"),
		Port:        getEnv("PORT", "8080"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RabbitURL: getEnv("RABBIT_URL", "amqp://localhost"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getEnvInt("ACCESS_TOKEN_TTL_HOURS", 1),
		RefreshTokenTTL: getEnvInt("REFRESH_TOKEN_TTL_HOURS", 24*30),

		SMSAccessKeyID:     os.Getenv("SMS_ACCESS_KEY_ID"),
		SMSAccessKeySecret: os.Getenv("SMS_ACCESS_KEY_SECRET"),
		SMSSignName:        getEnv("SMS_SIGN_NAME", "NanoCart"),
		SMSTemplateCode:    getEnv("SMS_TEMPLATE_CODE", "SMS_0000001"),
		OTPTTLMinutes:      getEnvInt("OTP_TTL_MINUTES", 5),

		AWSRegion: getEnv("AWS_REGION", "ap-south-1"),
		S3Bucket:  getEnv("S3_BUCKET", "nanocart-media"),

		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
	}

	// Sin secreto de firma no se puede emitir ninguna sesión.
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET no está configurado")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
