package constants

import "time"

// Redis cache keys
const (
	// RedisKeyClinicPrefix prefixes the per-clinic cache entries
	RedisKeyClinicPrefix = "clinic:"
)

// RedisClinicTTL bounds staleness of cached clinic entries
const RedisClinicTTL = 5 * time.Minute
