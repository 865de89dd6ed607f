// Package cli provides command-line interface setup and configuration
// for the hanzirecall application. It handles flag parsing, root command
// creation, logging setup and configuration management using cobra,
// viper and godotenv.
package cli
