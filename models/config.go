package models

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// AWS
	AWSRegion          string `mapstructure:"aws_region"`
	AWSAccessKeyID     string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey string `mapstructure:"aws_secret_access_key"`

	// DynamoDB. An endpoint of "memory" selects the in-process store.
	DynamoDBEndpoint     string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTableSuffix  string `mapstructure:"dynamodb_table_suffix"`
	LookupErrorsAsAbsent bool   `mapstructure:"dynamodb_lookup_errors_as_absent"`

	// Table provisioning
	ProvisionTables      bool     `mapstructure:"provision_tables"`
	ReadCapacityUnits    int64    `mapstructure:"read_capacity_units"`
	WriteCapacityUnits   int64    `mapstructure:"write_capacity_units"`
	TableMonitorSchedule string   `mapstructure:"table_monitor_schedule"`
	Tables               []string `mapstructure:"tables"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Metrics
	MetricsEnabled bool `mapstructure:"metrics_enabled"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`
}

// MemoryEndpoint is the dynamodb_endpoint value that selects the in-process store.
const MemoryEndpoint = "memory"
