// Package definition loads user-defined chains from a YAML file.
//
// Each entry names a logical variable and the sources it is read from.
// Stages are always consulted in the order instance variable, environment,
// config property, default, regardless of the order keys appear in:
//
//	variables:
//	  - name: request_timeout
//	    instance_var: request_timeout
//	    env_vars: [APP_REQUEST_TIMEOUT, REQUEST_TIMEOUT]
//	    config_property: request_timeout
//	    default: 30s
//	    type: duration
//
// A default stage is added only when the default key is present. An explicit
// "default: null" adds a stage that yields nil.
package definition
