// Package config loads the dispatch service configuration from an optional
// YAML file, then applies HEALSYNC_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/healsync/dispatch/pkg/application/services/advisory"
	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/infrastructure/events"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
)

const envPrefix = "HEALSYNC_"

// DefaultDeliveryCapacity is the vehicle count used when a request omits one
const DefaultDeliveryCapacity = 4

// Config holds application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Allocation AllocationConfig `yaml:"allocation"`
	Depot      DepotConfig      `yaml:"depot"`
	Weights    WeightsConfig    `yaml:"weights"`
	Advisory   advisory.Config  `yaml:"advisory"`
	Messaging  MessagingConfig  `yaml:"messaging"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

type AllocationConfig struct {
	DefaultDeliveryCapacity int `yaml:"default_delivery_capacity"`
}

// DepotConfig seeds the shared depot served by the HTTP API
type DepotConfig struct {
	Fleet int              `yaml:"fleet"`
	Stock map[string]int64 `yaml:"stock"`
}

// WeightsConfig overlays entries on the default weight tables
type WeightsConfig struct {
	Criticality map[string]float64 `yaml:"criticality"`
	Urgency     map[string]float64 `yaml:"urgency"`
}

type MessagingConfig struct {
	AMQP  events.AMQPConfig  `yaml:"amqp"`
	Kafka events.KafkaConfig `yaml:"kafka"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:       string(logging.LevelInfo),
			Environment: "development",
		},
		Allocation: AllocationConfig{DefaultDeliveryCapacity: DefaultDeliveryCapacity},
		Depot: DepotConfig{
			Fleet: DefaultDeliveryCapacity,
			Stock: map[string]int64{},
		},
		Advisory: advisory.DefaultConfig(),
		Messaging: MessagingConfig{
			AMQP:  events.DefaultAMQPConfig(),
			Kafka: events.DefaultKafkaConfig(),
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := getEnv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getEnv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getEnv("ENVIRONMENT"); v != "" {
		c.Logging.Environment = v
	}
	if err := envInt("DELIVERY_CAPACITY", &c.Allocation.DefaultDeliveryCapacity); err != nil {
		return err
	}
	if err := envInt("DEPOT_FLEET", &c.Depot.Fleet); err != nil {
		return err
	}
	if v := getEnv("ADVISORY_URL"); v != "" {
		c.Advisory.URL = v
		c.Advisory.Enabled = true
	}
	if v := getEnv("AMQP_URL"); v != "" {
		c.Messaging.AMQP.URL = v
		c.Messaging.AMQP.Enabled = true
	}
	if v := getEnv("KAFKA_BROKERS"); v != "" {
		c.Messaging.Kafka.Brokers = splitList(v)
		c.Messaging.Kafka.Enabled = true
	}
	return nil
}

// Validate checks the values the service cannot start without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Allocation.DefaultDeliveryCapacity < 0 {
		return fmt.Errorf("allocation.default_delivery_capacity cannot be negative, got %d", c.Allocation.DefaultDeliveryCapacity)
	}
	if c.Depot.Fleet < 0 {
		return fmt.Errorf("depot.fleet cannot be negative, got %d", c.Depot.Fleet)
	}
	if _, err := c.DepotInventory(); err != nil {
		return err
	}
	if _, err := c.WeightTables(); err != nil {
		return err
	}
	if c.Advisory.Enabled && c.Advisory.URL == "" {
		return fmt.Errorf("advisory.url is required when the advisory generator is enabled")
	}
	if c.Messaging.AMQP.Enabled && (c.Messaging.AMQP.URL == "" || c.Messaging.AMQP.Exchange == "") {
		return fmt.Errorf("messaging.amqp requires url and exchange when enabled")
	}
	if c.Messaging.Kafka.Enabled && (len(c.Messaging.Kafka.Brokers) == 0 || c.Messaging.Kafka.Topic == "") {
		return fmt.Errorf("messaging.kafka requires brokers and topic when enabled")
	}
	return nil
}

// DepotInventory returns the validated depot seed stock
func (c *Config) DepotInventory() (entities.Inventory, error) {
	stock := make(map[string]entities.Quantity, len(c.Depot.Stock))
	for name, qty := range c.Depot.Stock {
		stock[name] = entities.Quantity(qty)
	}
	inv, err := entities.NewInventory(stock)
	if err != nil {
		return nil, fmt.Errorf("depot.stock: %w", err)
	}
	return inv, nil
}

// WeightTables returns the default tables with the configured entries laid over them
func (c *Config) WeightTables() (entities.WeightTables, error) {
	defaults := entities.DefaultWeightTables()
	if len(c.Weights.Criticality) == 0 && len(c.Weights.Urgency) == 0 {
		return defaults, nil
	}

	criticality := make(map[string]float64)
	for _, name := range defaults.Medicines() {
		criticality[name] = defaults.Criticality(name)
	}
	for name, w := range c.Weights.Criticality {
		criticality[entities.NormalizeMedicine(name)] = w
	}

	urgency := make(map[string]float64)
	for _, u := range entities.KnownUrgencies {
		urgency[string(u)] = defaults.UrgencyWeight(u)
	}
	for label, w := range c.Weights.Urgency {
		urgency[string(entities.Urgency(label).Normalize())] = w
	}

	tables, err := entities.NewWeightTables(criticality, urgency)
	if err != nil {
		return entities.WeightTables{}, fmt.Errorf("weights: %w", err)
	}
	return tables, nil
}

// LoggerConfig builds the logger configuration for a service
func (c *Config) LoggerConfig(serviceName string) *logging.Config {
	lc := logging.DefaultConfig(serviceName)
	lc.Level = logging.ParseLevel(c.Logging.Level)
	if c.Logging.Environment != "" {
		lc.Environment = c.Logging.Environment
	}
	return lc
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func envInt(key string, target *int) error {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %s", envPrefix, key, v)
	}
	*target = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
