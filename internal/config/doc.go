// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to the settings of the server, the ticker and the probe while keeping
// configuration details separate from the components themselves.
package config
