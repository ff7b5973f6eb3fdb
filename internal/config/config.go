// Package config carries the environment-tunable defaults for the CLI.
// Flags always win over the environment.
package config

import (
	"runtime"

	"github.com/spf13/viper"
)

type Config struct {
	Strict      bool `mapstructure:"SPORTCONV_STRICT"`
	Workers     int  `mapstructure:"SPORTCONV_WORKERS"`
	SummaryOnly bool `mapstructure:"SPORTCONV_SUMMARY_ONLY"`
	Verbose     bool `mapstructure:"SPORTCONV_VERBOSE"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("SPORTCONV_STRICT", false)
	viper.SetDefault("SPORTCONV_WORKERS", runtime.NumCPU())
	viper.SetDefault("SPORTCONV_SUMMARY_ONLY", false)
	viper.SetDefault("SPORTCONV_VERBOSE", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg
}
