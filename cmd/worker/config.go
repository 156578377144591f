package main

import (
	"log"
	"time"

	"cinema-backend/pkg/container"
)

// Config holds the worker's runtime configuration.
type Config struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	PendingOrderTTL time.Duration
}

// loadConfig derives worker settings from the shared application config.
func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisAddr:       c.Config.Redis.Host,
		RedisPassword:   c.Config.Redis.Password,
		RedisDB:         c.Config.Redis.DB,
		PendingOrderTTL: time.Duration(c.Config.Checkout.PendingOrderTTLHours) * time.Hour,
	}

	log.Printf("[Config] redis: %s, pending order TTL: %s", cfg.RedisAddr, cfg.PendingOrderTTL)

	return cfg
}
