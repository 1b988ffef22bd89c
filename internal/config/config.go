package config

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Options holds the runtime settings shared by the commands.
type Options struct {
	runAddr        string
	logLevel       string
	dataBaseDSN    string
	seedPath       string
	migrationsPath string
	envFile        string
}

// NewOptions returns empty options; RegisterFlags fills them.
func NewOptions() *Options {
	return new(Options)
}

// RegisterFlags binds every option to flags. Defaults come from the environment,
// so LoadEnv must run first for .env values to take effect.
func (o *Options) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.runAddr, "address", "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	flags.StringVarP(&o.logLevel, "log-level", "l", getEnvOrDefault("LOG_LEVEL", "info"), "log level")
	flags.StringVarP(&o.dataBaseDSN, "database-dsn", "d", getEnvOrDefault("DATABASE_URI", ""), "database connection string")
	flags.StringVarP(&o.seedPath, "seed", "s", getEnvOrDefault("CATALOG_SEED", ""), "YAML file with the initial catalog")
	flags.StringVar(&o.migrationsPath, "migrations", getEnvOrDefault("MIGRATIONS_PATH", "migrations"), "directory with database migrations")
}

// RunAddr is the HTTP listen address.
func (o *Options) RunAddr() string {
	return o.runAddr
}

// LogLevel is the zap level name.
func (o *Options) LogLevel() string {
	return o.logLevel
}

// DataBaseDSN is the Postgres DSN; empty means memory only.
func (o *Options) DataBaseDSN() string {
	return o.dataBaseDSN
}

// SeedPath is the YAML seed file; empty means the built-in sample.
func (o *Options) SeedPath() string {
	return o.seedPath
}

// MigrationsPath is the directory of SQL migrations.
func (o *Options) MigrationsPath() string {
	return o.migrationsPath
}

// EnvFile is the .env file LoadEnv read, or the empty string if none was found.
func (o *Options) EnvFile() string {
	return o.envFile
}

// LoadEnv loads variables from the .env file at path without overriding
// variables already set in the process environment. A missing file is not
// an error.
func (o *Options) LoadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("No .env file found at %s, proceeding without it", path)
		return nil
	}
	if err != nil {
		return err
	}
	o.envFile = path
	return nil
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
