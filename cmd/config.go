package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the service configuration, read from environment variables.
type Config struct {
	HTTPPort string `mapstructure:"http_port"`
	LogLevel string `mapstructure:"log_level"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	KafkaBrokers         string `mapstructure:"kafka_brokers"`
	KafkaConsumerGroup   string `mapstructure:"kafka_consumer_group"`
	KafkaCommandsTopic   string `mapstructure:"kafka_commands_topic"`
	KafkaEventsTopic     string `mapstructure:"kafka_events_topic"`
	KafkaTopicPartitions int    `mapstructure:"kafka_topic_partitions"`
	ConsumerConcurrency  int    `mapstructure:"consumer_concurrency"`

	// RedisAddr selects the Redis deduplication store. When empty the
	// processed_messages table is used instead.
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RedisDB        int           `mapstructure:"redis_db"`
	DedupNamespace string        `mapstructure:"dedup_namespace"`
	DedupTTL       time.Duration `mapstructure:"dedup_ttl"`

	RelayBatchSize     int           `mapstructure:"relay_batch_size"`
	ProcessingDelayMin time.Duration `mapstructure:"processing_delay_min"`
	ProcessingDelayMax time.Duration `mapstructure:"processing_delay_max"`
}

var defaults = map[string]any{
	"http_port": "8080",
	"log_level": "info",

	"db_host":     "localhost",
	"db_port":     "5432",
	"db_user":     "postgres",
	"db_password": "",
	"db_name":     "orders",
	"db_sslmode":  "disable",

	"kafka_brokers":          "localhost:9092",
	"kafka_consumer_group":   "order-service",
	"kafka_commands_topic":   "order-commands",
	"kafka_events_topic":     "order-events",
	"kafka_topic_partitions": 16,
	"consumer_concurrency":   16,

	"redis_addr":      "",
	"redis_password":  "",
	"redis_db":        0,
	"dedup_namespace": "orders",
	"dedup_ttl":       24 * time.Hour,

	"relay_batch_size":     100,
	"processing_delay_min": 200 * time.Millisecond,
	"processing_delay_max": 3 * time.Second,
}

// LoadConfig reads the configuration from the environment. Variables from
// envFile are loaded first when the file exists; real environment variables
// take precedence over it.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}
	if c.KafkaBrokers == "" {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	if c.KafkaCommandsTopic == "" || c.KafkaEventsTopic == "" {
		errs = append(errs, errors.New("KAFKA_COMMANDS_TOPIC and KAFKA_EVENTS_TOPIC are required"))
	}
	if c.KafkaCommandsTopic != "" && c.KafkaCommandsTopic == c.KafkaEventsTopic {
		errs = append(errs, errors.New("commands and events must use different topics"))
	}
	if c.ConsumerConcurrency <= 0 {
		errs = append(errs, errors.New("CONSUMER_CONCURRENCY must be positive"))
	}
	if c.KafkaTopicPartitions <= 0 {
		errs = append(errs, errors.New("KAFKA_TOPIC_PARTITIONS must be positive"))
	}
	if c.DedupTTL <= 0 {
		errs = append(errs, errors.New("DEDUP_TTL must be positive"))
	}
	if c.RelayBatchSize <= 0 {
		errs = append(errs, errors.New("RELAY_BATCH_SIZE must be positive"))
	}
	if c.ProcessingDelayMin < 0 || c.ProcessingDelayMax < c.ProcessingDelayMin {
		errs = append(errs, errors.New("PROCESSING_DELAY_MIN must be in [0, PROCESSING_DELAY_MAX]"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// SlogLevel parses LOG_LEVEL.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
