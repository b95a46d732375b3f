package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	MercadoPagoToken   string
	MercadoPagoBaseURL string
	WebhookBaseURL     string
	WhatsAppNumber     string

	// StorageTimeout bounds each coupon/settlement storage call.
	StorageTimeout time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading environment directly")
	}

	return &Config{
		DBSource:           getEnv("DB_SOURCE", "modinha.db"),
		Port:               getEnv("PORT", "8000"),
		JWTSecret:          getEnv("JWT_SECRET", "changeme"),
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour),
		MercadoPagoToken:   os.Getenv("MERCADO_PAGO_ACCESS_TOKEN"),
		MercadoPagoBaseURL: getEnv("MERCADO_PAGO_BASE_URL", "https://api.mercadopago.com"),
		WebhookBaseURL:     os.Getenv("WEBHOOK_BASE_URL"),
		WhatsAppNumber:     getEnv("WHATSAPP_NUMBER", "5511999999999"),
		StorageTimeout:     getDuration("STORAGE_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %v", key, err)
	}
	return d
}
