// Package config loads CLI configuration from config files, .env files and
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the CLI configuration.
type Config struct {
	SchemaPath  string // path to the .sfg schema definition
	DatabaseURL string
	Provider    string // sqlite | postgres | mysql; inferred from URL when empty
	Owner       string // logical fingerprint owner
}

// Load reads configuration from, in increasing priority: config file,
// environment (SCHEMAFORGE_ prefix), .env, .env.local.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".schemaforge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "schemaforge"))

	viper.SetEnvPrefix("SCHEMAFORGE")
	viper.AutomaticEnv()

	viper.SetDefault("schema_path", "schema.sfg")
	viper.SetDefault("owner", "default")

	// Config file is optional.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		SchemaPath:  viper.GetString("schema_path"),
		DatabaseURL: viper.GetString("database_url"),
		Provider:    viper.GetString("provider"),
		Owner:       viper.GetString("owner"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Provider == "" {
		cfg.Provider = DetectProvider(cfg.DatabaseURL)
	}
	return cfg, nil
}

// DetectProvider infers the provider from a connection string.
func DetectProvider(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "mysql://"), strings.Contains(url, "@tcp("):
		return "mysql"
	default:
		return "sqlite"
	}
}

// DriverName maps a provider to its database/sql driver.
func DriverName(provider string) string {
	switch provider {
	case "postgres", "postgresql":
		return "postgres"
	case "mysql":
		return "mysql"
	default:
		return "sqlite3"
	}
}
