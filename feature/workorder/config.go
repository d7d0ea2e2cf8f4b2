package workorder

// Config holds configuration for the work-order store client.
type Config struct {
	// BaseURL is the API root of the work-order platform.
	BaseURL string `mapstructure:"base_url" default:"https://api.housecallpro.com"`
	// ApiKey authenticates API calls.
	ApiKey string `mapstructure:"api_key" default:""`
	// EmployeeID is the default field employee jobs are assigned to.
	EmployeeID string `mapstructure:"employee_id" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
