// Package storefront models the rotating daily store: the offers on
// display, when the rotation expires, and a watcher that re-fetches the
// store once the countdown crosses zero.
package storefront

import (
	"fmt"
	"time"
)

// Offer is a single purchasable item in the store rotation. Cost maps
// currency ID to price.
type Offer struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"displayName"`
	DisplayIcon string         `json:"displayIcon"`
	Cost        map[string]int `json:"cost"`
}

// Daily is one store rotation.
type Daily struct {
	Offers      []Offer   `json:"skins"`
	RefreshTime time.Time `json:"refreshTime"`
	Expires     time.Time `json:"expires"`
}

// TimeRemaining returns how long until the rotation expires, clamped at
// zero.
func (d *Daily) TimeRemaining(now time.Time) time.Duration {
	remaining := d.Expires.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the rotation has passed its expiry.
func (d *Daily) Expired(now time.Time) bool {
	return !now.Before(d.Expires)
}

// HistoryEntry is one past rotation.
type HistoryEntry struct {
	Date   time.Time `json:"date"`
	Offers []Offer   `json:"skins"`
}

// History is the backend's record of recent rotations.
type History struct {
	Days    int            `json:"days"`
	Entries []HistoryEntry `json:"entries"`
}

// FormatCountdown renders a remaining duration as "3h 12m 9s", or
// "Expired" once it reaches zero.
func FormatCountdown(remaining time.Duration) string {
	if remaining <= 0 {
		return "Expired"
	}
	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	seconds := int(remaining.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
