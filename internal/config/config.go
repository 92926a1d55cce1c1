package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
)

const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// The lease is extended before each reminder, so it has to outlive the
// slowest single fire.
const leaseMargin = 10 * time.Second

var ChannelNames = []interface{}{"discord", "whatsapp", "email", "web", "amqp", "none"}

type Config struct {
	IsTestMode  bool   `env:"TEST_MODE" envDefault:"false"`
	HTTPAddress string `env:"HTTP_ADDRESS" envDefault:"0.0.0.0:8080"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/reminders.db"`
	PostgresqlURL string `env:"POSTGRESQL_URL"`
	RedisURL      string `env:"REDIS_URL"`

	ReminderCheckInterval     time.Duration `env:"REMINDER_CHECK_INTERVAL" envDefault:"10s"`
	ReminderSchedulerLeaseTTL time.Duration `env:"REMINDER_SCHEDULER_LEASE_TTL" envDefault:"1m"`
	ReminderFireTimeout       time.Duration `env:"REMINDER_FIRE_TIMEOUT" envDefault:"30s"`
	ReminderListAllLimit      uint          `env:"REMINDER_LIST_ALL_LIMIT" envDefault:"50"`

	NotifyPrimary        string        `env:"NOTIFY_PRIMARY" envDefault:"discord"`
	NotifySecondary      string        `env:"NOTIFY_SECONDARY" envDefault:"whatsapp"`
	NotifyRequestTimeout time.Duration `env:"NOTIFY_REQUEST_TIMEOUT" envDefault:"10s"`

	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
	DiscordUserID     string `env:"DISCORD_USER_ID"`
	DiscordUsername   string `env:"DISCORD_USERNAME" envDefault:"Thursday"`

	TwilioAccountSID   string        `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string        `env:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppFrom string        `env:"TWILIO_WHATSAPP_FROM"`
	TwilioWhatsAppTo   string        `env:"TWILIO_WHATSAPP_TO"`
	TwilioBaseURL      url.URL       `env:"TWILIO_BASE_URL" envDefault:"https://api.twilio.com"`
	WhatsAppPartDelay  time.Duration `env:"WHATSAPP_PART_DELAY" envDefault:"1s"`

	AwsRegion      string `env:"AWS_REGION"`
	AwsAccessKey   string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey   string `env:"AWS_SECRET_KEY"`
	EmailSender    string `env:"EMAIL_SENDER"`
	EmailRecipient string `env:"EMAIL_RECIPIENT"`

	RabbitmqURL               string `env:"RABBITMQ_URL"`
	RabbitmqNotificationQueue string `env:"RABBITMQ_NOTIFICATION_QUEUE" envDefault:"thursday.reminders"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HTTPAddress, validation.Required),
		validation.Field(&c.StoreDriver, validation.Required, validation.In(StoreDriverSQLite, StoreDriverPostgres)),
		validation.Field(&c.SQLitePath, requiredIf(c.StoreDriver == StoreDriverSQLite)...),
		validation.Field(&c.PostgresqlURL, requiredIf(c.StoreDriver == StoreDriverPostgres)...),
		validation.Field(&c.ReminderCheckInterval, validation.Min(time.Second)),
		validation.Field(
			&c.ReminderSchedulerLeaseTTL,
			validation.Min(c.ReminderFireTimeout+leaseMargin).Error("must exceed REMINDER_FIRE_TIMEOUT by at least 10s"),
		),
		validation.Field(&c.ReminderFireTimeout, validation.Min(time.Second)),
		validation.Field(&c.ReminderListAllLimit, validation.Required),
		validation.Field(&c.NotifyPrimary, validation.In(ChannelNames...)),
		validation.Field(&c.NotifySecondary, validation.In(ChannelNames...)),
		validation.Field(&c.NotifyRequestTimeout, validation.Min(time.Second)),
		validation.Field(&c.EmailSender, requiredIf(c.EmailRecipient != "")...),
	)
}

func requiredIf(condition bool) []validation.Rule {
	if condition {
		return []validation.Rule{validation.Required}
	}
	return nil
}

// Load reads an optional .env file and then the process environment. Values
// already present in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}
	return Parse(env.Options{})
}

func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
