package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const envPrefix = "LISTDICT"

type Config struct {
	Server ServerConfig `mapstructure:"server" toml:"server"`
	URL    URLConfig    `mapstructure:"url" toml:"url"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

type ServerConfig struct {
	Listen  string `mapstructure:"listen" toml:"listen"`
	Verbose bool   `mapstructure:"verbose" toml:"verbose"`
	// MaxItemBytes bounds the data chunk of a single command.
	MaxItemBytes int `mapstructure:"max_item_bytes" toml:"max_item_bytes"`
}

type URLConfig struct {
	KeepFragment bool `mapstructure:"keep_fragment" toml:"keep_fragment"`
}

type LogConfig struct {
	// Format is one of "auto", "text" or "json".
	Format string `mapstructure:"format" toml:"format"`
}

// Load reads configuration from configPath, or from listdict.toml in the
// working directory or $HOME/.listdict when configPath is empty. A missing
// default file is not an error. Environment variables such as
// LISTDICT_SERVER_LISTEN override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("listdict")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.listdict")
	}

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Listen: "127.0.0.1:11211", MaxItemBytes: 1 << 20},
		Log:    LogConfig{Format: "auto"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.verbose", d.Server.Verbose)
	v.SetDefault("server.max_item_bytes", d.Server.MaxItemBytes)
	v.SetDefault("url.keep_fragment", d.URL.KeepFragment)
	v.SetDefault("log.format", d.Log.Format)
}

func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return fmt.Errorf("invalid server listen address %q: %w", c.Server.Listen, err)
	}
	if c.Server.MaxItemBytes <= 0 {
		return fmt.Errorf("server max_item_bytes must be positive, got %d", c.Server.MaxItemBytes)
	}

	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}

	return nil
}

// TOML renders c as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return b, nil
}
