package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string        `yaml:"port"`
	DBDSN           string        `yaml:"db_dsn"`
	DBMaxOpenConns  int           `yaml:"db_max_open_conns"`
	LogFile         string        `yaml:"log_file"`
	LogLevel        string        `yaml:"log_level"`
	TemplatesDir    string        `yaml:"templates_dir"`
	SeedDemo        bool          `yaml:"seed_demo"`
	CheckoutTimeout time.Duration `yaml:"checkout_timeout"`
}

func Load() Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[warn] could not read .env: %v", err)
	}

	cfg := Config{
		Port:            envOr("PORT", "8081"),
		DBDSN:           envOr("DB_DSN", "orderdesk.db"), // sqlite file in project root
		DBMaxOpenConns:  envInt("DB_MAX_OPEN_CONNS", 10),
		LogFile:         os.Getenv("LOG_FILE"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		TemplatesDir:    envOr("TEMPLATES_DIR", "./web/templates"),
		SeedDemo:        envBool("SEED_DEMO", true),
		CheckoutTimeout: envDuration("CHECKOUT_TIMEOUT", 5*time.Second),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			log.Printf("[warn] config file %s ignored: %v", path, err)
		}
	}

	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s SEED_DEMO=%t CHECKOUT_TIMEOUT=%s",
		cfg.Port, redact(cfg.DBDSN), cfg.LogFile, cfg.LogLevel, cfg.SeedDemo, cfg.CheckoutTimeout)
	return cfg
}

// overlay replaces fields set in a YAML file; keys absent from the file keep
// their environment value.
func (c *Config) overlay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// redact hides the password of a URL-style DSN.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
