package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Environment selects the record-store base the process operates on
	// (development or production). It is threaded through configuration into
	// every entry point; core logic never reads it from ambient state.
	Environment string `mapstructure:"environment" default:"development"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// IsValidEnvironment checks if the configured environment is valid.
func (c Config) IsValidEnvironment() bool {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
		return true
	default:
		return false
	}
}
