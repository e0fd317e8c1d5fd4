package config

import (
	"time"
)

// Version defines the nwksintkeys version.
var Version string

// Config defines the configuration structure.
type Config struct {
	General struct {
		LogLevel    int  `mapstructure:"log_level"`
		LogToSyslog bool `mapstructure:"log_to_syslog"`
		LogJSON     bool `mapstructure:"log_json"`
	} `mapstructure:"general"`

	Derivation struct {
		SelfTest bool          `mapstructure:"self_test"`
		Workers  int           `mapstructure:"workers"`
		Timeout  time.Duration `mapstructure:"timeout"`
	} `mapstructure:"derivation"`

	Output struct {
		Format string `mapstructure:"format"`
	} `mapstructure:"output"`

	KEK struct {
		Label string `mapstructure:"label"`
		KEK   string `mapstructure:"kek"`
	} `mapstructure:"kek"`

	Metrics struct {
		Prometheus struct {
			Textfile string `mapstructure:"textfile"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"metrics"`
}

// C holds the global configuration.
var C Config
