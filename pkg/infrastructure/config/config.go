package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

const Prefix = "STOREFRONT"

const (
	SinkWebhook = "webhook"
	SinkMySQL   = "mysql"
	SinkNone    = "none"
)

type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile         string        `envconfig:"LOG_FILE"`

	CatalogFile    string `envconfig:"CATALOG_FILE"`
	DefaultCountry string `envconfig:"DEFAULT_COUNTRY" default:"US"`

	AdminEmail  string        `envconfig:"ADMIN_EMAIL" default:"admin@stridezero.com"`
	JWTSecret   string        `envconfig:"JWT_SECRET" default:"stridezero-dev-secret"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"72h"`
	SessionDir  string        `envconfig:"SESSION_DIR"`
	SessionKey  string        `envconfig:"SESSION_KEY" default:"stride_user"`
	CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`

	OrderSink          string `envconfig:"ORDER_SINK" default:"webhook"`
	WebhookURL         string `envconfig:"WEBHOOK_URL" default:"https://script.google.com/macros/s/INSERT_YOUR_ID_HERE/exec"`
	MySQLDSN           string `envconfig:"MYSQL_DSN"`
	QueueSize          int    `envconfig:"QUEUE_SIZE" default:"64"`
	ConfirmationPolicy string `envconfig:"CONFIRMATION_POLICY" default:"ungated"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"storefront.events"`

	GeminiAPIKey   string  `envconfig:"GEMINI_API_KEY"`
	GeminiModel    string  `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiBaseURL  string  `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	AssistantRate  float64 `envconfig:"ASSISTANT_RATE" default:"1"`
	AssistantBurst int     `envconfig:"ASSISTANT_BURST" default:"5"`

	PaymentBaseURL  string `envconfig:"PAYMENT_BASE_URL" default:"https://www.paypal.com/cgi-bin/webscr"`
	PaymentBusiness string `envconfig:"PAYMENT_BUSINESS" default:"YOUR_PAYPAL_EMAIL_HERE"`
	PaymentCurrency string `envconfig:"PAYMENT_CURRENCY" default:"USD"`
}

// Load reads an optional .env file and then the STOREFRONT_* environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	if cfg.SessionDir == "" {
		cfg.SessionDir = defaultSessionDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.OrderSink {
	case SinkWebhook, SinkNone:
	case SinkMySQL:
		if c.MySQLDSN == "" {
			return errors.New("mysql order sink requires STOREFRONT_MYSQL_DSN")
		}
	default:
		return errors.Errorf("unknown order sink %q", c.OrderSink)
	}

	switch model.ConfirmationPolicy(c.ConfirmationPolicy) {
	case model.ConfirmUngated, model.ConfirmGated:
	default:
		return errors.Errorf("unknown confirmation policy %q", c.ConfirmationPolicy)
	}

	if model.ParseCountry(c.DefaultCountry) == "" {
		return errors.New("default country must not be empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

func (c *Config) Policy() model.ConfirmationPolicy {
	return model.ConfirmationPolicy(c.ConfirmationPolicy)
}

func (c *Config) Country() model.Country {
	return model.ParseCountry(c.DefaultCountry)
}

func defaultSessionDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}
