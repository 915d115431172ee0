package main

import (
	"github.com/ilyakaznacheev/cleanenv"
)

type (
	ServiceConfig struct {
		Environment string `env:"ENVIRONMENT" env-default:"development"`
		Port        int    `env:"PORT" env-default:"8080"`

		SentryDSN string `env:"SENTRY_DSN"`

		// MaxRequestBytes bounds how much profile payload a single
		// request may carry, decompressed.
		MaxRequestBytes int64 `env:"MAX_REQUEST_BYTES" env-default:"33554432"`
	}
)

func loadConfig() (ServiceConfig, error) {
	var c ServiceConfig
	err := cleanenv.ReadEnv(&c)
	return c, err
}
