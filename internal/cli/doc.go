// Package cli provides command-line interface setup and configuration
// for the lingoflow application. It handles flag parsing, command
// creation, .env loading, logging and configuration management using
// cobra and viper.
package cli
