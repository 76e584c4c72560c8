// Package config loads the settings of the cfgchain tool.
//
// These settings configure the tool (server port, database, logging); they are
// separate from the profile file whose values the chains resolve.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s), merged left-to-right (default: ./cfgchain.yaml)
//  3. Environment variables (CFGCHAIN_ prefix)
//  4. CLI flags that were explicitly set
//
// # Usage
//
//	cfg, err := config.Load([]string{"cfgchain.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// Keys map to environment variables with dots replaced by underscores:
//   - server.port → CFGCHAIN_SERVER_PORT
//   - database.dsn → CFGCHAIN_DATABASE_DSN
//   - session.config_file → CFGCHAIN_SESSION_CONFIG_FILE
//
// # Validation
//
// Struct tags are checked with go-playground/validator: the port must be
// 1-65535, the database type sqlite or postgres, the log level one of
// debug, info, warn, error.
package config
