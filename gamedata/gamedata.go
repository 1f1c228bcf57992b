// Package gamedata models the backend's game-data catalogue (skins,
// bundles) and its health endpoint, plus a fixed-interval poller that
// keeps a health snapshot fresh.
package gamedata

import "time"

// CacheStats reports which of the backend's game-data caches are loaded.
type CacheStats struct {
	Skins   bool `json:"skins"`
	Bundles bool `json:"bundles"`
	Version bool `json:"version"`
}

// Health is the backend game-data service health snapshot.
type Health struct {
	Initialized bool       `json:"initialized"`
	CacheStats  CacheStats `json:"cacheStats"`
}

// Skin is one catalogue weapon skin.
type Skin struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	DisplayIcon string `json:"displayIcon"`
}

// Bundle is one catalogue bundle.
type Bundle struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	DisplayIcon string `json:"displayIcon"`
}

// Snapshot pairs a health poll result with the time it was taken. Err is
// set when the poll failed; the poller keeps going either way.
type Snapshot struct {
	Health    *Health
	Err       error
	CheckedAt time.Time
}
