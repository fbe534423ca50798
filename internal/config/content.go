package config

// ContentConfig holds the on-disk content store configuration
type ContentConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// GeocodeConfig holds the reverse-geocoding lookup configuration.
// The user agent is mandatory; public lookup services reject
// requests without a client-identifying header.
type GeocodeConfig struct {
	Endpoint  string `mapstructure:"endpoint"   yaml:"endpoint"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout   string `mapstructure:"timeout"    yaml:"timeout"`
	Disabled  bool   `mapstructure:"disabled"   yaml:"disabled"`
}

// APIConfig holds the HTTP API configuration
type APIConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// ImportConfig holds the watch-directory import configuration.
// Files dropped into WatchDir are imported automatically.
type ImportConfig struct {
	WatchDir string `mapstructure:"watch_dir" yaml:"watch_dir"`
}
