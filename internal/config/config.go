// Package config loads server settings from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DatabaseURL string
	Rooms       []string

	DealDelay   time.Duration
	BotDelay    time.Duration
	RedealTick  time.Duration
	RedealTicks int
	IdleTimeout time.Duration
	MaxDealHCP  int
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        getString("BRIDGETABLE_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Rooms:       getList("BRIDGETABLE_ROOMS", []string{"table-1", "table-2", "table-3", "table-4", "table-5"}),
		DealDelay:   getDuration("BRIDGETABLE_DEAL_DELAY", 2*time.Second),
		BotDelay:    getDuration("BRIDGETABLE_BOT_DELAY", time.Second),
		RedealTick:  getDuration("BRIDGETABLE_REDEAL_TICK", time.Second),
		RedealTicks: getInt("BRIDGETABLE_REDEAL_TICKS", 5),
		IdleTimeout: getDuration("BRIDGETABLE_IDLE_TIMEOUT", 5*time.Minute),
		MaxDealHCP:  getInt("BRIDGETABLE_MAX_DEAL_HCP", 0),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
