package config

import "reflect"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StoreConfig selects where quotes, destinations, sites and users are read from.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"`  // redis, sqlite or memory
	SQLite   string `mapstructure:"sqlite"`   // database path for the sqlite backend
	Fixtures string `mapstructure:"fixtures"` // YAML file loaded by the memory backend
}

// TemplatesConfig controls template lookup and interpolation.
type TemplatesConfig struct {
	Dir           string `mapstructure:"dir"`
	BlankDefault  string `mapstructure:"blank_default"`
	LookupTimeout string `mapstructure:"lookup_timeout"` // duration string, e.g., "2s"
}

// OpenAIConfig enables the AI-written [quote:pitch] placeholder.
type OpenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// QuailyConfig holds delivery API settings.
type QuailyConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Channel string `mapstructure:"channel"` // default channel slug
}

// OutboxConfig controls the dispatcher worker.
type OutboxConfig struct {
	Interval    string `mapstructure:"interval"` // duration string, e.g., "30s"
	BatchSize   int    `mapstructure:"batch_size"`
	// MaxAttempts is how many times a job is tried before it is moved to the dead list.
	MaxAttempts int    `mapstructure:"max_attempts"`
	OutputDir   string `mapstructure:"output_dir"`
	Workers     int    `mapstructure:"workers"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Store     StoreConfig     `mapstructure:"store"`
	Templates TemplatesConfig `mapstructure:"templates"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Quaily    QuailyConfig    `mapstructure:"quaily"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "redis"
	}
	if c.Store.SQLite == "" {
		c.Store.SQLite = "./quotes.db"
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = "./templates"
	}
	if c.Templates.LookupTimeout == "" {
		c.Templates.LookupTimeout = "2s"
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "English"
	}
	if c.Outbox.Interval == "" {
		c.Outbox.Interval = "30s"
	}
	if c.Outbox.BatchSize == 0 {
		c.Outbox.BatchSize = 50
	}
	if c.Outbox.MaxAttempts == 0 {
		c.Outbox.MaxAttempts = 3
	}
	if c.Outbox.OutputDir == "" {
		c.Outbox.OutputDir = "./out"
	}
	if c.Outbox.Workers == 0 {
		c.Outbox.Workers = 1
	}
}

// Keys lists every dotted config key, e.g. "openai.api_key", so each one
// can be bound to an environment variable.
func Keys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, key, keys)
			continue
		}
		*keys = append(*keys, key)
	}
}
