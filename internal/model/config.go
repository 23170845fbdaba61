package model

import "time"

// Config is the complete mailfacts configuration
type Config struct {
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Lookup      LookupConfig      `yaml:"lookup" mapstructure:"lookup"`
}

// CacheConfig controls caching of extraction records by content hash
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"` // Empty disables the disk layer
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// ServerConfig controls the HTTP endpoint used by mail-client plugins
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout    time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per client IP
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
}

// LookupConfig controls construction of external register links
type LookupConfig struct {
	CompaniesHouseBaseURL string `yaml:"companies_house_base_url" mapstructure:"companies_house_base_url"`
}

// DefaultCompaniesHouseBaseURL is prefixed to a registration number to build its lookup link
const DefaultCompaniesHouseBaseURL = "https://find-and-update.company-information.service.gov.uk/company/"

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskDir:   "",
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8085",
			RequestTimeout:    30 * time.Second,
			MaxBodyBytes:      1 << 20,
			RequestsPerSecond: 10,
			BurstSize:         20,
		},
		Lookup: LookupConfig{
			CompaniesHouseBaseURL: DefaultCompaniesHouseBaseURL,
		},
	}
}
