package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"pkt.systems/mdhtml"
)

// config holds the command configuration merged from defaults, the config
// file, MDHTML_* environment variables and flags.
type config struct {
	Output         string `mapstructure:"output"`
	Newlines       bool   `mapstructure:"newlines"`
	LanguagePrefix string `mapstructure:"language_prefix"`
	FrontMatter    bool   `mapstructure:"front_matter"`
	DumpTree       bool   `mapstructure:"dump_tree"`
	Width          int    `mapstructure:"width"`
	Stats          bool   `mapstructure:"stats"`
}

func loadConfig(v *viper.Viper, configFile string) (config, error) {
	v.SetDefault("output", "")
	v.SetDefault("newlines", false)
	v.SetDefault("language_prefix", "language-")
	v.SetDefault("front_matter", true)
	v.SetDefault("dump_tree", false)
	v.SetDefault("width", 0)
	v.SetDefault("stats", false)

	v.SetEnvPrefix("MDHTML")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(normalizePath(configFile))
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("mdhtml")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mdhtml"))
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c config) renderOptions() []mdhtml.RenderOption {
	return []mdhtml.RenderOption{
		mdhtml.WithNewlines(c.Newlines),
		mdhtml.WithLanguagePrefix(c.LanguagePrefix),
		mdhtml.WithFrontMatter(c.FrontMatter),
	}
}
