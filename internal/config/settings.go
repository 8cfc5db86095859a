package config

// POS-wide settings live in Redis so every terminal sees the same values
// without a database round trip.  The tax rate is the one setting this
// service reads.  It is deliberately surfaced as an explicit TaxPolicy
// value handed into each balance calculation rather than a process-wide
// global: handlers ask the store, the engine only ever sees the value.

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-pos/internal/split"
)

// taxRateKey is where the back office publishes the current tax rate.
const taxRateKey = "settings:tax_rate"

// Settings reads cached POS settings from Redis with an env-configured
// fallback.  A nil Redis client is tolerated; the fallback applies.
type Settings struct {
	rdb         *redis.Client
	fallbackTax float64
}

// NewSettings builds a Settings reader.  fallbackTax is used when Redis is
// unavailable or the key is unset; it defaults to 0 upstream, so an
// unconfigured system charges no tax rather than guessing one.
func NewSettings(rdb *redis.Client, fallbackTax float64) *Settings {
	return &Settings{rdb: rdb, fallbackTax: fallbackTax}
}

// TaxPolicy returns the current tax policy.  Lookup failures and malformed
// values degrade to the fallback rate.
func (s *Settings) TaxPolicy(ctx context.Context) split.TaxPolicy {
	if s.rdb == nil {
		return split.TaxPolicy{Rate: s.fallbackTax}
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	v, err := s.rdb.Get(ctx, taxRateKey).Result()
	if err != nil {
		return split.TaxPolicy{Rate: s.fallbackTax}
	}
	rate, err := strconv.ParseFloat(v, 64)
	if err != nil || rate < 0 {
		return split.TaxPolicy{Rate: s.fallbackTax}
	}
	return split.TaxPolicy{Rate: rate}
}
