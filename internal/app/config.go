// Package app assembles the cargo bot: configuration, storage,
// handlers and the Telegram runtime options.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/yukmarkazi/cargobot/core/config"
	coredatabase "github.com/yukmarkazi/cargobot/core/database"
)

// BotConfig holds settings specific to the cargo bot.
type BotConfig struct {
	// SupportContact is shown in the contact menu, e.g. "@support".
	SupportContact string `yaml:"support_contact" envconfig:"BOT_SUPPORT_CONTACT"`
	// NewsChannel is the public news channel reference, e.g. "@kanal".
	NewsChannel string `yaml:"news_channel" envconfig:"BOT_NEWS_CHANNEL"`
	// BroadcastPaceMS is the delay between broadcast sends; 0 -> default.
	BroadcastPaceMS int `yaml:"broadcast_pace_ms" envconfig:"BOT_BROADCAST_PACE_MS"`
}

// Config aggregates core, database and bot configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// BroadcastPace returns the configured broadcast delay.
func (c *Config) BroadcastPace() time.Duration {
	if c.Bot.BroadcastPaceMS <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(c.Bot.BroadcastPaceMS) * time.Millisecond
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.host is required")
	}
	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("database.name is required")
	}
	return &cfg, nil
}
