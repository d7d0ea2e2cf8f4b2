package config

import (
	"reflect"
	"strings"

	"github.com/blindermanupwork/property-management-automation-sub007/core/database"
	"github.com/blindermanupwork/property-management-automation-sub007/core/logger"
	"github.com/blindermanupwork/property-management-automation-sub007/core/server"
	"github.com/blindermanupwork/property-management-automation-sub007/core/storage"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/automation"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server and environment.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the run archive (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the record store mirror.
	Database database.Config `mapstructure:"database"`
	// Workorder holds configuration for the work-order store client.
	Workorder workorder.Config `mapstructure:"workorder"`
	// Automation holds configuration for the run controller.
	Automation automation.Config `mapstructure:"automation"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists; a missing file is fine (production).
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values
// in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
