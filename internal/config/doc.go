// Package config parses the copyqueue command line. Flags take precedence
// over COPYQ_-prefixed environment variables, which take precedence over the
// built-in defaults. The parsed AppConfig is validated before it is returned.
package config
