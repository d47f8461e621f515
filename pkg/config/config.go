// Package config loads lobengine's runtime configuration: the tradable
// tick band, which PriceLevels implementation to seat it on, and the
// addresses of its optional collaborators (Redis, Kafka, an OTel
// collector).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LadderKind selects a PriceLevels implementation.
type LadderKind string

const (
	LadderContiguous LadderKind = "contiguous"
	LadderSparse     LadderKind = "sparse"
)

// Config is the full set of tunables read by the book driver.
type Config struct {
	Book struct {
		Ladder  LadderKind `mapstructure:"ladder" yaml:"ladder"`
		MinTick int64      `mapstructure:"min_tick" yaml:"min_tick"`
		MaxTick int64      `mapstructure:"max_tick" yaml:"max_tick"`
	} `mapstructure:"book" yaml:"book"`

	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
	} `mapstructure:"log" yaml:"log"`

	Redis struct {
		Addr     string `mapstructure:"addr" yaml:"addr"`
		Password string `mapstructure:"password" yaml:"password"`
		DB       int    `mapstructure:"db" yaml:"db"`
		Key      string `mapstructure:"key" yaml:"key"`
	} `mapstructure:"redis" yaml:"redis"`

	Kafka struct {
		Brokers []string `mapstructure:"brokers" yaml:"brokers"`
		Topic   string   `mapstructure:"topic" yaml:"topic"`
	} `mapstructure:"kafka" yaml:"kafka"`

	Tracing struct {
		CollectorEnabled bool   `mapstructure:"collector_enabled" yaml:"collector_enabled"`
		Endpoint         string `mapstructure:"endpoint" yaml:"endpoint"`
	} `mapstructure:"tracing" yaml:"tracing"`

	RateLimit struct {
		EventsPerSecond float64 `mapstructure:"events_per_second" yaml:"events_per_second"`
		Burst           int     `mapstructure:"burst" yaml:"burst"`
	} `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// Default returns the out-of-the-box configuration: a contiguous ladder
// spanning a modest tick band, info-level pretty logging, and every
// external collaborator pointed at its usual local address.
func Default() Config {
	var c Config
	c.Book.Ladder = LadderContiguous
	c.Book.MinTick = 1
	c.Book.MaxTick = 1_000_000
	c.Log.Level = "info"
	c.Log.Pretty = true
	c.Redis.Addr = "localhost:6379"
	c.Redis.Key = "lobengine:snapshot"
	c.Kafka.Brokers = []string{"localhost:9092"}
	c.Kafka.Topic = "lobengine.events"
	c.Tracing.CollectorEnabled = false
	c.Tracing.Endpoint = "localhost:4317"
	c.RateLimit.EventsPerSecond = 50_000
	c.RateLimit.Burst = 1_000
	return c
}

// Load reads configuration from defaults, then an optional YAML file at
// path (skipped if path is empty), then environment variables prefixed
// LOB_ (e.g. LOB_REDIS_ADDR overrides redis.addr), in that ascending
// order of precedence.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LOB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, def)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("book.ladder", string(def.Book.Ladder))
	v.SetDefault("book.min_tick", def.Book.MinTick)
	v.SetDefault("book.max_tick", def.Book.MaxTick)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.pretty", def.Log.Pretty)
	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.password", def.Redis.Password)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("redis.key", def.Redis.Key)
	v.SetDefault("kafka.brokers", def.Kafka.Brokers)
	v.SetDefault("kafka.topic", def.Kafka.Topic)
	v.SetDefault("tracing.collector_enabled", def.Tracing.CollectorEnabled)
	v.SetDefault("tracing.endpoint", def.Tracing.Endpoint)
	v.SetDefault("rate_limit.events_per_second", def.RateLimit.EventsPerSecond)
	v.SetDefault("rate_limit.burst", def.RateLimit.Burst)
}

// DumpDefault marshals the default configuration to YAML, for a
// --print-config style flag.
func DumpDefault() (string, error) {
	out, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("config: marshal default: %w", err)
	}
	return string(out), nil
}
