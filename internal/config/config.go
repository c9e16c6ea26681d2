package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	HTTPServer HTTPServer `yaml:"http_server"`
	Yahoo      Yahoo      `yaml:"yahoo"`
	MarketData MarketData `yaml:"market_data"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Yahoo struct {
	URL string `yaml:"url"`
}

type MarketData struct {
	Provider         string `yaml:"provider"`
	WindowDays       int    `yaml:"window_days"`
	DefaultCurrency  string `yaml:"default_currency"`
	BatchConcurrency int    `yaml:"batch_concurrency"`
}

func LoadConfig(configPath string) *Config {
	data, err := os.ReadFile(configPath)
	if err != nil {
		panic(err)
	}
	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		panic(err)
	}
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.MarketData.Provider == "" {
		c.MarketData.Provider = "yahoo"
	}
	// Two calendar days is the minimum for a day-over-day change, but a
	// weekend plus a market holiday can hide three trading days in a row.
	if c.MarketData.WindowDays < 2 {
		c.MarketData.WindowDays = 5
	}
	if c.MarketData.DefaultCurrency == "" {
		c.MarketData.DefaultCurrency = "EUR"
	}
	if c.MarketData.BatchConcurrency < 1 {
		c.MarketData.BatchConcurrency = 4
	}
}
