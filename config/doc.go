// Package config loads and validates the service configuration.
//
// Configuration is read from YAML files layered lowest to highest priority,
// starting from built-in defaults. A small set of environment variables
// (STRUCTGEN_HTTP_ADDR, STRUCTGEN_NATS_URL, STRUCTGEN_LOG_LEVEL) override
// file values for container deployments.
package config
