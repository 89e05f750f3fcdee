package config

import (
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/tracing"
)

type AppConfig struct {
	APIPort string `env:"PORT" envDefault:"11000"`
	// MailDomain is the domain the relay routes to us, e.g. "mail.hearthside.app".
	// The memory mailbox is derived as memory@{MailDomain}.
	MailDomain       string `env:"MAIL_DOMAIN" envDefault:"mail.hearthside.local"`
	MemoryMailbox    string `env:"MEMORY_MAILBOX" envDefault:"memory"`
	WebhookToken     string `env:"INBOUND_WEBHOOK_TOKEN"`
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	Logger           *logger.Config
	Tracing          *tracing.JaegerConfig
}

type DatabaseConfig struct {
	Host            string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port            string `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string `env:"POSTGRES_USER" envDefault:"mailroom"`
	DBName          string `env:"POSTGRES_DB_NAME" envDefault:"hearthside"`
	Password        string `env:"POSTGRES_PASSWORD" envDefault:"mailroom"`
	MaxConn         int    `env:"POSTGRES_DB_MAX_CONN" envDefault:"50"`
	MaxIdleConn     int    `env:"POSTGRES_DB_MAX_IDLE_CONN" envDefault:"10"`
	ConnMaxLifetime int    `env:"POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
}

type StorageConfig struct {
	// R2 credentials take precedence; when AccountID is empty the service
	// falls back to plain S3 with AWSRegion.
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"STORAGE_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"STORAGE_ACCESS_KEY_SECRET"`
	AWSRegion       string `env:"AWS_REGION" envDefault:"us-east-1"`
	MediaBucket     string `env:"BUCKET_NAME_EMAIL_MEDIA" envDefault:"email-media"`
	CDNDomain       string `env:"MEDIA_CDN_DOMAIN"`
}

type CronConfig struct {
	// Heartbeat check, every minute
	HeartbeatSchedule string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Inbound ledger prune, daily at 04:00
	LedgerPruneSchedule string `env:"CRON_SCHEDULE_LEDGER_PRUNE" envDefault:"0 0 4 * * *"`
	LedgerRetentionDays int    `env:"INBOUND_LEDGER_RETENTION_DAYS" envDefault:"30"`
}
