// Package config reads server settings from command-line flags, the
// environment, and an optional .env file, in that order of precedence.
package config
