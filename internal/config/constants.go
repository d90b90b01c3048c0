package config

import "time"

const (
	// Tutor API request timeout. There is no retry: a single failure is
	// terminal for the turn and the student resubmits manually.
	RequestTimeout = 90 * time.Second

	// GeoGebra material metadata cache
	MaterialCacheTTL     = 1 * time.Hour
	MaterialCacheCleanup = 2 * time.Hour

	// Per-chat conversation controllers are cached and rebuilt from
	// storage after eviction.
	ConversationCacheTTL     = 6 * time.Hour
	ConversationCacheCleanup = 1 * time.Hour

	// Greeting shown when the history is empty.
	GreetingText = "Hi! I'm Mr. Gilbot! Do you have any geometry-related questions?"
)
