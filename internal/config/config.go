package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// Config represents the application configuration
type Config struct {
	PresentationDay  string `yaml:"presentationDay" validate:"required"`
	PresentationTime string `yaml:"presentationTime" validate:"required"`
	MaintenanceDay   string `yaml:"maintenanceDay" validate:"required"`
	Location         string `yaml:"location" validate:"required"`
	SlackChannel     string `yaml:"slackChannel" validate:"required"`
	Timezone         string `yaml:"timezone" validate:"required"`
	RosterPath       string `yaml:"rosterPath" validate:"required"`
	TrackerPath      string `yaml:"trackerPath" validate:"required"`
	// TrackerDSN switches the tracker to Postgres when set.
	TrackerDSN string `yaml:"trackerDSN,omitempty"`
	// SyncTracker enables the git mirror of the tracker file.
	SyncTracker               bool   `yaml:"syncTracker,omitempty"`
	OperatorEmail             string `yaml:"operatorEmail" validate:"required,email"`
	SendPresentationReminders bool   `yaml:"sendPresentationReminders"`
	CitizenDayInfoURL         string `yaml:"citizenDayInfoURL,omitempty" validate:"omitempty,url"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// PresentationWeekday returns the presentation weekday index (Monday=0).
// Only valid after Validate has passed.
func (c *Config) PresentationWeekday() int {
	idx, _ := model.ParseWeekday(c.PresentationDay)
	return idx
}

// MaintenanceWeekday returns the maintenance weekday index (Monday=0).
// Only valid after Validate has passed.
func (c *Config) MaintenanceWeekday() int {
	idx, _ := model.ParseWeekday(c.MaintenanceDay)
	return idx
}

// LoadWithEnv loads and validates the configuration with an environment
// suffix. For example, env="test" will look for "dutybot_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and the day/time/timezone
// fields the struct tags cannot express
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := model.ParseWeekday(cfg.PresentationDay); err != nil {
		return fmt.Errorf("invalid presentationDay: %w", err)
	}
	if _, err := model.ParseWeekday(cfg.MaintenanceDay); err != nil {
		return fmt.Errorf("invalid maintenanceDay: %w", err)
	}
	if _, err := time.Parse("15:04", cfg.PresentationTime); err != nil {
		return fmt.Errorf("invalid presentationTime (want HH:MM, 24-hour): %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	return nil
}

// findConfigFile searches for the config file in current directory and home
// directory. If env is provided, it adds it as an extension
// (e.g., "dutybot_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "dutybot_config.yaml"
	if env != "" {
		configFileName = "dutybot_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
