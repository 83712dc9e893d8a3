package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries everything the API server needs. Values come from the
// environment, with a .env overlay outside production.
type Config struct {
	ServerPort   string        `env:"SERVER_PORT" envDefault:":3000"`
	BaseURL      string        `env:"BASE_URL" envDefault:"http://localhost:3000"`
	DatabaseDSN  string        `env:"DATABASE_DSN,required"`
	AccessSecret string        `env:"ACCESS_SECRET,required"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"72h"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`

	Kafka  Kafka  `envPrefix:"KAFKA_"`
	Google Google `envPrefix:"GOOGLE_"`
}

// MailerConfig carries everything the mail worker needs.
type MailerConfig struct {
	Kafka Kafka `envPrefix:"KAFKA_"`
	Mail  Mail  `envPrefix:"MAIL_"`
}

type Kafka struct {
	Broker   string `env:"BROKER,required"`
	Topic    string `env:"TOPIC" envDefault:"mail-events"`
	GroupID  string `env:"GROUP_ID" envDefault:"mail-workers"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

type Mail struct {
	SMTPAddr      string `env:"SMTP_ADDR" envDefault:"smtp.gmail.com:587"`
	Username      string `env:"USERNAME"`
	Password      string `env:"PASSWORD"`
	From          string `env:"FROM"`
	FromName      string `env:"FROM_NAME" envDefault:"RoveStack Travel"`
	VerifyBaseURL string `env:"VERIFY_BASE_URL,required"`
}

type Google struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Load parses the server configuration.
func Load() (Config, error) {
	loadDotenv()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadMailer parses the mail worker configuration.
func LoadMailer() (MailerConfig, error) {
	loadDotenv()

	var cfg MailerConfig
	if err := env.Parse(&cfg); err != nil {
		return MailerConfig{}, fmt.Errorf("parse mailer config: %w", err)
	}
	return cfg, nil
}

func loadDotenv() {
	if os.Getenv("ENV") != "prod" {
		// Overload so a local .env wins over stale shell exports.
		_ = godotenv.Overload()
	}
}
