package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "SAKURA"

// Env holds the environment overrides. Empty values leave the file config
// untouched.
type Env struct {
	// Env: SAKURA_SOURCE
	Source string `envconfig:"SOURCE"`
	// Env: SAKURA_ENDPOINT
	Endpoint string `envconfig:"ENDPOINT"`
	// Env: SAKURA_LIMIT
	Limit int `envconfig:"LIMIT"`
	// Env: SAKURA_DB_PATH
	DBPath string `envconfig:"DB_PATH"`
	// Env: SAKURA_LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`
	// Env: SAKURA_LOG_FILE
	LogFile string `envconfig:"LOG_FILE"`
}

// LoadDotEnv loads path (default ".env") into the process environment. A
// missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Apply returns cfg with every non-empty override set.
func (e Env) Apply(cfg Config) Config {
	if e.Source != "" {
		cfg.Source.Kind = e.Source
	}
	if e.Endpoint != "" {
		cfg.Source.Endpoint = e.Endpoint
	}
	if e.Limit != 0 {
		cfg.Source.Limit = e.Limit
	}
	if e.DBPath != "" {
		cfg.Source.DBPath = e.DBPath
	}
	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	if e.LogFile != "" {
		cfg.Log.File = e.LogFile
	}
	return cfg
}
