package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// Connection attempts made by New before giving up
	ConnectAttempts uint
	ConnectDelay    time.Duration

	// GameTTL expires saved games that are not touched; 0 keeps them forever
	GameTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:             "redis://localhost:6379",
		PoolSize:        10,
		MinIdleConns:    2,
		ConnectAttempts: 5,
		ConnectDelay:    200 * time.Millisecond,
		GameTTL:         7 * 24 * time.Hour,
	}
}
