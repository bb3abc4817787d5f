// Package config holds the settings structs of crypto-facade and the loaders
// that populate them from YAML files and CRYPTO_FACADE_* environment variables.
//
// Every settings struct validates itself; loaders call Validate before
// returning so callers never observe a half-valid configuration.
package config
