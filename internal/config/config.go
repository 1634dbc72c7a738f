package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type QuotesConfig struct {
	ValidityDays           int
	RejectInactiveProducts bool
	SweepInterval          time.Duration
}

type PoliciesConfig struct {
	TermMonths int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Quotes      QuotesConfig
	Policies    PoliciesConfig
	Kafka       KafkaConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Quotes: QuotesConfig{
			ValidityDays:           v.GetInt("QUOTES_VALIDITY_DAYS"),
			RejectInactiveProducts: v.GetBool("QUOTES_REJECT_INACTIVE_PRODUCTS"),
			SweepInterval:          v.GetDuration("QUOTES_SWEEP_INTERVAL"),
		},
		Policies: PoliciesConfig{
			TermMonths: v.GetInt("POLICIES_TERM_MONTHS"),
		},
		Kafka: KafkaConfig{
			Brokers: parseList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Quotes.ValidityDays == 0 {
		cfg.Quotes.ValidityDays = 30
	}
	if !v.IsSet("QUOTES_REJECT_INACTIVE_PRODUCTS") {
		cfg.Quotes.RejectInactiveProducts = true
	}
	if !v.IsSet("QUOTES_SWEEP_INTERVAL") {
		cfg.Quotes.SweepInterval = time.Hour
	}
	if cfg.Policies.TermMonths == 0 {
		cfg.Policies.TermMonths = 12
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "fleetcover.events"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Quotes.ValidityDays < 0 {
		return fmt.Errorf("QUOTES_VALIDITY_DAYS must be positive")
	}
	if cfg.Policies.TermMonths < 1 {
		return fmt.Errorf("POLICIES_TERM_MONTHS must be at least 1")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
