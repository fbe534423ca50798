package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

func GetDefault() BaseConfig {
	return BaseConfig{
		ShutdownTimeout: "10s",

		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},
		Metadata: MetadataConfig{
			SQLite: MetadataSQLiteConfig{
				Path: filepath.Join(defaultDataDir(), "gostash.db"),
			},
		},
		Content: ContentConfig{
			DataDir: filepath.Join(defaultDataDir(), "files"),
		},
		Geocode: GeocodeConfig{
			Endpoint:  "https://nominatim.openstreetmap.org/reverse",
			UserAgent: "gostash/0.1",
			Timeout:   "15s",
			Disabled:  false,
		},
		API: APIConfig{
			Listen: "127.0.0.1:8420",
		},
		Import: ImportConfig{
			WatchDir: "",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gostash"
	}
	return filepath.Join(home, ".gostash")
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)
	viper.SetDefault("content.data_dir", defaults.Content.DataDir)

	viper.SetDefault("geocode.endpoint", defaults.Geocode.Endpoint)
	viper.SetDefault("geocode.user_agent", defaults.Geocode.UserAgent)
	viper.SetDefault("geocode.timeout", defaults.Geocode.Timeout)
	viper.SetDefault("geocode.disabled", defaults.Geocode.Disabled)

	viper.SetDefault("api.listen", defaults.API.Listen)
	viper.SetDefault("import.watch_dir", defaults.Import.WatchDir)
}
