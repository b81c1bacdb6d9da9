package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nosql-repository-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron"
	"github.com/spf13/viper"
)

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	return LoadFrom(".", "./configs", "../", "../../")
}

// LoadFrom reads config.json from the first of paths that has one, then
// applies defaults and environment overrides.
func LoadFrom(paths ...string) (*models.Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	flattenNestedConfig(v)

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The table suffix follows the environment unless set explicitly
	if config.DynamoDBTableSuffix == "" {
		config.DynamoDBTableSuffix = config.AppEnv
	}

	// The in-process store starts empty, so its tables are always created
	if config.DynamoDBEndpoint == models.MemoryEndpoint {
		config.ProvisionTables = true
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("app_name", "NoSQL Repository Backend")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "local")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8080")

	// AWS defaults
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")

	// DynamoDB defaults
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_suffix", "")
	v.SetDefault("dynamodb_lookup_errors_as_absent", false)

	// Table provisioning defaults
	v.SetDefault("provision_tables", false)
	v.SetDefault("read_capacity_units", 10)
	v.SetDefault("write_capacity_units", 10)
	v.SetDefault("table_monitor_schedule", "@every 5m")
	v.SetDefault("tables", []string{"main_table", "event_table"})

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// Metrics defaults
	v.SetDefault("metrics_enabled", true)

	// CORS defaults
	v.SetDefault("cors_origins", []string{"*"})

	// Base Path default
	v.SetDefault("basePath", "/api")
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.AppPort == "" {
		return fmt.Errorf("app_port must be set")
	}
	if c.DynamoDBTableSuffix == "" {
		return fmt.Errorf("dynamodb_table_suffix or app_env must be set")
	}
	if strings.ContainsAny(c.DynamoDBTableSuffix, " /") {
		return fmt.Errorf("dynamodb_table_suffix %q contains invalid characters", c.DynamoDBTableSuffix)
	}
	if c.ProvisionTables && (c.ReadCapacityUnits <= 0 || c.WriteCapacityUnits <= 0) {
		return fmt.Errorf("read_capacity_units and write_capacity_units must be positive")
	}
	if _, err := cron.Parse(c.TableMonitorSchedule); err != nil {
		return fmt.Errorf("invalid table_monitor_schedule %q: %w", c.TableMonitorSchedule, err)
	}

	// In production, we should have AWS credentials set
	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	return nil
}

// flattenNestedConfig flattens the nested JSON structure to flat keys for easier mapping
func flattenNestedConfig(v *viper.Viper) {
	nested := map[string]string{
		"app.name":    "app_name",
		"app.version": "app_version",
		"app.env":     "app_env",
		"app.host":    "app_host",
		"app.port":    "app_port",

		"aws.region":            "aws_region",
		"aws.access_key_id":     "aws_access_key_id",
		"aws.secret_access_key": "aws_secret_access_key",

		"dynamodb.endpoint":                "dynamodb_endpoint",
		"dynamodb.table_suffix":            "dynamodb_table_suffix",
		"dynamodb.lookup_errors_as_absent": "dynamodb_lookup_errors_as_absent",

		"provisioning.enabled":              "provision_tables",
		"provisioning.read_capacity_units":  "read_capacity_units",
		"provisioning.write_capacity_units": "write_capacity_units",
		"provisioning.monitor_schedule":     "table_monitor_schedule",
		"provisioning.tables":               "tables",

		"logging.level":  "log_level",
		"logging.format": "log_format",

		"metrics.enabled": "metrics_enabled",

		"cors.origins": "cors_origins",
	}
	for from, to := range nested {
		if v.IsSet(from) {
			v.Set(to, v.Get(from))
		}
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ") // 4 spaces indent
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}
