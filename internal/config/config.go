// Package config provides the configuration structure for the ivr-service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                    string `toml:"url"`
	SessionEventSubject    string `toml:"session_event_subject"`
	AudioObjectStoreBucket string `toml:"audio_object_store_bucket"`
	CallerRecordBucket     string `toml:"caller_record_bucket"`
}

// SynthesisConfig holds the parameters of the external speech-synthesis
// service and the fixed voice used for greetings.
type SynthesisConfig struct {
	ServiceURL     string `toml:"service_url"`
	Voice          string `toml:"voice"`
	Language       string `toml:"language"`
	SampleRateHz   int    `toml:"sample_rate_hz"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// GreetingConfig holds the call-facing behavior knobs. The timezone is an
// explicit parameter so the spoken time never depends on the host clock
// configuration.
type GreetingConfig struct {
	Timezone string `toml:"timezone"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS      NATSConfig      `toml:"nats"`
	Synthesis SynthesisConfig `toml:"synthesis"`
	Greeting  GreetingConfig  `toml:"greeting"`
	Paths     PathsConfig     `toml:"paths"`
}

// Load loads the configuration for the ivr-service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
