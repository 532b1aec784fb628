package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"io/fs"
	"log"
	"os"
	"time"
)

type Config struct {
	Env               string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer        `yaml:"http_server"`
	ExportWorkerToken string   `yaml:"export_worker_token" env:"EXPORT_WORKER_TOKEN"`
	WorkDir           string   `yaml:"work_dir" env:"WORK_DIR"`
	ErrorLog          string   `yaml:"error_log" env:"ERROR_LOG" env-default:"errors.log"`
	AllowedOrigins    []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	MaxBodyBytes      int64    `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" env-default:"67108864"`
	PDF               PDF      `yaml:"pdf"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"0.0.0.0:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"120s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type PDF struct {
	Enabled       bool          `yaml:"enabled" env:"ENABLE_PDF_EXPORT" env-default:"false"`
	SofficePath   string        `yaml:"soffice_path" env:"SOFFICE_PATH"`
	Timeout       time.Duration `yaml:"timeout" env:"PDF_TIMEOUT" env-default:"90s"`
	MaxConcurrent int64         `yaml:"max_concurrent" env:"PDF_MAX_CONCURRENT" env-default:"1"`
}

// Load reads an optional .env file, then the YAML file named by CONFIG_PATH
// if set, and lets the environment override both.
func Load() (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: .env: %w", op, err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func MustConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}
