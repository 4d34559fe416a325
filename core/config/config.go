package config

import (
	"reflect"
	"strings"

	"oppgave-sync/core/database"
	"oppgave-sync/core/logger"
	"oppgave-sync/core/server"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the loggers.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Kafka holds configuration for the oppgave change-event stream.
	Kafka KafkaConfig `mapstructure:"kafka"`
	// Oppgave holds configuration for the remote oppgave API and the
	// reconciliation rules.
	Oppgave OppgaveConfig `mapstructure:"oppgave"`
}

// KafkaConfig holds configuration for the stream consumer.
type KafkaConfig struct {
	// Brokers is a comma-separated list of broker addresses.
	Brokers string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic is the oppgave change-event topic.
	Topic string `mapstructure:"topic" default:"oppgave-endret"`
	// GroupID is the consumer group id.
	GroupID string `mapstructure:"group_id" default:"oppgave-sync"`
}

// BrokerList splits the configured brokers into a slice.
func (k KafkaConfig) BrokerList() []string {
	return strings.Split(k.Brokers, ",")
}

// OppgaveConfig holds configuration for the remote oppgave API and the
// intake filter applied by the reconciliation engine.
type OppgaveConfig struct {
	// BaseURL is the base URL of the remote oppgave API.
	BaseURL string `mapstructure:"base_url" default:"http://oppgave.default.svc.nais.local/api/v1/oppgaver"`
	// PageSize is the fixed page size for batch fetches.
	PageSize int `mapstructure:"page_size" default:"100"`
	// Behandlingstype is the case-type code identifying klage oppgaver.
	Behandlingstype string `mapstructure:"behandlingstype" default:"ae0058"`
	// EnhetPrefix identifies complaint-handling units by unit-code prefix.
	EnhetPrefix string `mapstructure:"enhet_prefix" default:"42"`
	// Tema is the subject-area filter passed on batch fetches.
	Tema string `mapstructure:"tema" default:"SYK"`
	// Hjemler is a comma-separated override of the legal-reference
	// whitelist. Empty means the built-in set.
	Hjemler string `mapstructure:"hjemler" default:""`
}

// HjemmelList splits the configured whitelist override into a slice.
// Returns nil when no override is configured.
func (o OppgaveConfig) HjemmelList() []string {
	if strings.TrimSpace(o.Hjemler) == "" {
		return nil
	}
	parts := strings.Split(o.Hjemler, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
