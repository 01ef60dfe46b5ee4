package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const configFilePath = "config.json"

// Config represents the application's configuration structure.
type Config struct {
	DataPath               string   `json:"data-path" mapstructure:"data-path"`
	MongoAddress           string   `json:"mongo-address" mapstructure:"mongo-address"`
	DatabaseName           string   `json:"database-name" mapstructure:"database-name"`
	Periods                []string `json:"periods" mapstructure:"periods"`
	LogLevel               string   `json:"log-level" mapstructure:"log-level"`
	DropExisting           bool     `json:"drop-existing" mapstructure:"drop-existing"`
	ServerSelectionTimeout string   `json:"server-selection-timeout" mapstructure:"server-selection-timeout"`
}

var requiredFields = []string{
	"data-path",
	"mongo-address",
	"database-name",
	"periods",
}

// field: default value
var optionalFields = map[string]interface{}{
	"log-level":                "INFO",
	"drop-existing":            true,
	"server-selection-timeout": "5s",
}

// InitConfig reads configuration from a JSON file and environment variables.
// Environment variables take precedence over the config file.
func InitConfig() (*Config, error) {
	v := viper.New()

	// Set config file type and name
	v.SetConfigFile(configFilePath)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, field := range requiredFields {
		v.BindEnv(field)
	}
	for field := range optionalFields {
		v.BindEnv(field)
	}

	if err := v.ReadInConfig(); err != nil {
		// ignore error if config file is not found
		// as we can get all config from env vars
		if !strings.Contains(err.Error(), configFilePath) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	for _, field := range requiredFields {
		if !v.IsSet(field) {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	// Set defaults for optional fields if not set
	for optField, defaultValue := range optionalFields {
		if !v.IsSet(optField) {
			v.Set(optField, defaultValue)
		}
	}

	// periods may arrive from the environment as a JSON array or a comma list
	if s := v.GetString("periods"); s != "" {
		var parsed []string
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			v.Set("periods", parsed)
		} else {
			parts := strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			v.Set("periods", parts)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &config, nil
}
