// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	promoteAdmin = pflag.String("promote-admin", "", "Promotes an existing user to the admin role on startup")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.cors_origin", "host_cors_origin")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.path", "database_path")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("storage.path", "storage_path")

	v.BindEnv("upload.max_size", "upload_max_size")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 3001)
	v.SetDefault("host.cors_origin", "http://localhost:5173")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/storage.db")

	v.SetDefault("storage.path", "uploads")

	// In megabytes, shifted into bytes at the bottom
	v.SetDefault("upload.max_size", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	switch v.GetString("database.driver") {
	case "sqlite":
		if v.GetString("database.path") == "" {
			return errors.New("database path can't be empty")
		}
	case "postgres":
		if v.GetString("database.dsn") == "" {
			return errors.New("database dsn can't be empty")
		}
	default:
		return fmt.Errorf("invalid database driver provided, must be one of %v", validDrivers)
	}

	if v.GetString("storage.path") == "" {
		return errors.New("storage path can't be empty")
	}

	if v.GetInt64("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
