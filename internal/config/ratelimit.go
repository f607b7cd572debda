package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig controls the token bucket applied to the API.  Booking
// mutations draw from a separate, smaller bucket (MutationCapacity) so a
// burst of create calls cannot starve reads.
type RateLimitConfig struct {
	Enabled          bool
	Capacity         int
	MutationCapacity int
	RefillTokens     int
	RefillInterval   time.Duration
	TTL              time.Duration
	KeyStrategy      string
	Prefix           string
	Debug            bool
}

func LoadRateLimitConfig() RateLimitConfig {
	c := RateLimitConfig{
		Enabled:          envBool("RATE_LIMIT_ENABLED", true),
		Capacity:         envInt("RATE_LIMIT_CAPACITY", 60),
		MutationCapacity: envInt("RATE_LIMIT_MUTATION_CAPACITY", 10),
		RefillTokens:     envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval:   envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:              envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:      getenv("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:           getenv("RATE_LIMIT_PREFIX", "hall:rl"),
		Debug:            envBool("RATE_LIMIT_DEBUG", false),
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.MutationCapacity < 1 || c.MutationCapacity > c.Capacity {
		c.MutationCapacity = c.Capacity
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

// ForMutations returns the settings of the smaller bucket applied to
// booking mutations.
func (c RateLimitConfig) ForMutations() RateLimitConfig {
	m := c
	m.Capacity = c.MutationCapacity
	m.Prefix = c.Prefix + ":mut"
	return m
}
