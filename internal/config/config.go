package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	App   AppConfig   `envPrefix:"APP_"`
	Log   LogConfig   `envPrefix:"LOG_"`
	Bot   BotConfig   `envPrefix:"BOT_"`
	DB    DBConfig    `envPrefix:"DB_"`
	Redis RedisConfig `envPrefix:"REDIS_"`
}

type AppConfig struct {
	Env           string `env:"ENV" envDefault:"production"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"ru"`
}

type LogConfig struct {
	Level     string `env:"LEVEL" envDefault:"info"`
	Format    string `env:"FORMAT" envDefault:"text"`
	Component string `env:"COMPONENT" envDefault:"teamfinder_bot"`
	Source    bool   `env:"SOURCE" envDefault:"false"`
}

type BotConfig struct {
	Token string `env:"TOKEN"`
	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int  `env:"POLL_TIMEOUT" envDefault:"30"`
	Debug       bool `env:"DEBUG" envDefault:"false"`
}

type DBConfig struct {
	DSN      string `env:"DSN"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	Name     string `env:"NAME" envDefault:"teamfinder"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Load reads configuration from the environment. DB.DSN takes priority;
// otherwise it is assembled from the individual DB_* parts.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
		)
	}
	return cfg, nil
}
