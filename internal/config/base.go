package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
	Content  ContentConfig  `mapstructure:"content"  yaml:"content"`
	Geocode  GeocodeConfig  `mapstructure:"geocode"  yaml:"geocode"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Import   ImportConfig   `mapstructure:"import"   yaml:"import"`
}

func LoadConfig() (*BaseConfig, error) {
	cfg := &BaseConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
