package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache in front of the public
// catalog reads (genres and movies). Keys live under Prefix so catalog
// writes can purge them wholesale.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // cached methods, upper case
	TTL          time.Duration
	VaryQuery    bool // include the raw query string in the key
	Prefix       string
	MaxBodyBytes int // larger responses are served but not stored
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		VaryQuery:    envBool("CACHE_VARY_QUERY", true),
		Prefix:       envStr("CACHE_PREFIX", "catalog"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}.normalize()
}

func (c CacheConfig) normalize() CacheConfig {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.Prefix == "" {
		c.Prefix = "catalog"
	}
	if len(c.Methods) == 0 {
		c.Methods = map[string]bool{"GET": true}
	}
	return c
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
