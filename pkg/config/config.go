package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig captures runtime settings for the dapsd daemon.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	HostSuffix      string        `mapstructure:"host_suffix"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads daemon configuration from defaults, files, and env vars.
func Load() (ServerConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.SetEnvPrefix("DAPSD")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.10.1:8080")
	v.SetDefault("host_suffix", ".docs")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("shutdown_timeout", "10s")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return ServerConfig{}, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}
