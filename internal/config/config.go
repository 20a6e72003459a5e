// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package config is a singleton and provides global access to the
// configuration values.
package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// Default config path. It does not need to exist, default values for all parameters will be
	// used instead.
	DefaultConfig = "/etc/stordctl/config.toml"
)

var Cfg Config

// Configuration structure for the program. We use toml format for file-based
// configuration and also all configuration options can be overriden by
// environment variable specified in this structure.
type Config struct {
	Bus struct {
		Kind    string `toml:"kind" env:"STORD_BUS" env-default:"system" env-description:"Which bus to connect to: system, session or address."`
		Address string `toml:"address" env:"STORD_BUS_ADDRESS" env-default:"" env-description:"Bus address when kind is address, e.g. unix:path=/run/stord/bus."`
	} `toml:"bus"`

	Service struct {
		Name string `toml:"name" env:"STORD_SERVICE_NAME" env-default:"org.storage.stord1" env-description:"Well-known bus name owned by the stord daemon."`
		Root string `toml:"root" env:"STORD_SERVICE_ROOT" env-default:"/org/storage/stord" env-description:"Root object path of the daemon's namespace."`
	} `toml:"service"`

	Log struct {
		Level  int  `toml:"level" env:"STORD_LOG_LEVEL" env-default:"1" env-description:"Log level."`
		Pretty bool `toml:"pretty" env:"STORD_LOG_PRETTY" env-default:"true" env-description:"Pretty logging."`
	} `toml:"log"`
}

// Configure handles the configuration from the file at path, or from
// DefaultConfig when path is empty. The configuration file has the
// lower priotiry and the environment variables have the highest
// priority. It is perfetcly to fine to use just one of these or to
// combine them.
func Configure(path string) error {
	if path == "" {
		path = DefaultConfig
	}

	if err := cleanenv.ReadConfig(path, &Cfg); err != nil {
		if err := cleanenv.ReadEnv(&Cfg); err != nil {
			return err
		}
	}

	return nil
}
