package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"siglo-server/internal/util"
)

// Store driver names
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config provides configuration for the Siglo server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Store          struct {
		Driver     string `yaml:"driver"`
		MaxRetries int    `yaml:"maxRetries" envconfig:"max_retries"`
	} `yaml:"store"`
	JWT struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	RecaptchaSecret string `yaml:"recaptchaSecret" envconfig:"recaptcha_secret"`
	Log             struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Game struct {
		DefaultBaseBet int `yaml:"defaultBaseBet" envconfig:"default_base_bet"`
		// TurnDelayMS is how long the turn keeper waits before moving past a player who cannot act
		TurnDelayMS int `yaml:"turnDelayMs" envconfig:"turn_delay_ms"`
	} `yaml:"game"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	var c Config
	c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	c.MigrationsPath = "./sql"
	c.Store.Driver = DriverMemory
	c.Store.MaxRetries = 10
	c.JWT.PublicKey = ".keys/public.pem"
	c.JWT.PrivateKey = ".keys/private.key"
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Game.DefaultBaseBet = 100
	c.Game.TurnDelayMS = 2000
	return c
}

// TurnDelay returns the auto-advance delay
func (c Config) TurnDelay() time.Duration {
	return time.Duration(c.Game.TurnDelayMS) * time.Millisecond
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The YAML file is optional. Environment variables prefixed with SIGLO_ take precedence.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("SIGLO_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if file != nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("siglo", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
