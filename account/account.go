// Package account holds the identity types shared between the gateway and
// the session controller: the authenticated user's profile and the
// backend-reported descriptors of every live account session.
package account

import (
	"fmt"
	"time"
)

// UserSession is the authenticated identity's display data as returned by
// the backend. Balance and AccountXP are optional: the backend omits them
// until its own data refresh has completed for the account.
type UserSession struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	GameName string     `json:"gameName"`
	TagLine  string     `json:"tagLine"`
	Region   string     `json:"region"`
	Balance  *Balance   `json:"balance,omitempty"`
	XP       *AccountXP `json:"accountXP,omitempty"`
}

// Balance holds the three wallet counters tracked per account.
type Balance struct {
	ValorantPoints  int `json:"valorantPoints"`
	RadianitePoints int `json:"radianitePoints"`
	KingdomCredits  int `json:"kingdomCredits"`
}

// AccountXP is the account progression record.
type AccountXP struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// RiotID returns the composite in-game name, e.g. "Foo#NA1".
func (u *UserSession) RiotID() string {
	return fmt.Sprintf("%s#%s", u.GameName, u.TagLine)
}

// Clone returns a deep copy, so callers can hand out profile snapshots
// without sharing the nested records.
func (u *UserSession) Clone() *UserSession {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Balance != nil {
		balance := *u.Balance
		clone.Balance = &balance
	}
	if u.XP != nil {
		xp := *u.XP
		clone.XP = &xp
	}
	return &clone
}

// ActiveSession is a lightweight descriptor of one backend-held session.
// The backend is the source of truth for these; clients only ever replace
// their snapshot wholesale.
type ActiveSession struct {
	Username     string    `json:"username"`
	GameName     string    `json:"gameName"`
	TagLine      string    `json:"tagLine"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}
