// Package config handles loading and validating the home controller configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with GRAYLOGIC_* environment variables
//   - Validation of every section, reporting all problems at once
//   - Default value handling
//
// The defaults run the control loop on the simulated platform with every
// outer surface (database, MQTT, InfluxDB, HTTP API) disabled.
//
// Security Considerations:
//   - Credentials (MQTT password, InfluxDB token) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, path, err := config.LoadFromEnv()
//	if err != nil {
//	    return err
//	}
package config
