package config

import (
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the geotag tools.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Workers: The number of concurrent workers reading photos.
// - Format: The default output format of the geotag command.
// - MetricsFile: Optional path of a Prometheus textfile written on exit.
// - OutputDir: The default directory for split FASTA records.
// - Database: Optional PostgreSQL sink for extracted locations.
type Config struct {
	Env         string         `yaml:"env"`          // Env is the current environment: local, development, production.
	Workers     int            `yaml:"workers"`      // The number of concurrent workers for processing photos.
	Format      string         `yaml:"format"`       // Output format: text, json, yaml, utm, mgrs.
	MetricsFile string         `yaml:"metrics_file"` // Path of the Prometheus textfile, empty to disable.
	OutputDir   string         `yaml:"output_dir"`   // Directory for the FASTA splitter output.
	Database    PostgresConfig `yaml:"postgres"`     // Database holds the postgres database configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// Enabled reports whether a database host was configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad loads the configuration from the environment (and an optional .env file)
// and returns a Config struct. It panics on values that cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	env := viper.New()
	env.AutomaticEnv()
	env.SetDefault("GEOTAG_ENV", "production")
	env.SetDefault("GEOTAG_WORKERS", "4")
	env.SetDefault("GEOTAG_FORMAT", "text")
	env.SetDefault("GEOTAG_METRICS_FILE", "")
	env.SetDefault("FASTA_OUTPUT_DIR", "single_sequence_files")
	env.SetDefault("DB_PORT", "5432")

	workers, err := strconv.Atoi(env.GetString("GEOTAG_WORKERS"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	return &Config{
		Env:         env.GetString("GEOTAG_ENV"),
		Workers:     workers,
		Format:      env.GetString("GEOTAG_FORMAT"),
		MetricsFile: env.GetString("GEOTAG_METRICS_FILE"),
		OutputDir:   env.GetString("FASTA_OUTPUT_DIR"),
		Database: PostgresConfig{
			Host:     env.GetString("DB_HOST"),
			Port:     env.GetString("DB_PORT"),
			User:     env.GetString("DB_USERNAME"),
			Password: env.GetString("DB_PASSWORD"),
			Name:     env.GetString("DB_NAME"),
		},
	}
}
