// Package model contains the persistent records of a reward event and the rules
// that mutate them in place.
package model

import (
	"time"
)

// BasisPoints is the denominator of a reward split.
const BasisPoints = 10_000

// Identity names a verified caller.
type Identity string

// Holder names a value holding: a caller identity or an event-derived vault.
type Holder string

// AccountPrefix scopes caller holdings away from event vaults, so no identity
// string can name a vault.
const AccountPrefix = "account/"

// Holder returns the holding owned directly by the identity.
func (i Identity) Holder() Holder { return Holder(AccountPrefix + string(i)) }

// Split is the ordered basis-point weights for winner, runner-up and third place.
type Split [3]uint16

// Sum returns the total weight in basis points.
func (s Split) Sum() uint32 {
	return uint32(s[0]) + uint32(s[1]) + uint32(s[2])
}

// Event is the maintainer-owned campaign configuration.
type Event struct {
	EventID       uint64    `json:"event_id"`
	Name          string    `json:"name"`
	Maintainer    Identity  `json:"maintainer"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	RewardSplit   Split     `json:"reward_split_percentage"`
	CollectibleID string    `json:"collectible_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Started reports whether now is at or past the start date.
func (e *Event) Started(now time.Time) bool {
	return !now.Before(e.StartDate)
}

// Ended reports whether now is strictly after the end date.
func (e *Event) Ended(now time.Time) bool {
	return now.After(e.EndDate)
}

// EventRef locates the Event record for an event id.
type EventRef struct {
	EventID    uint64   `json:"event_id"`
	Maintainer Identity `json:"maintainer"`
	Name       string   `json:"name"`
}

// Balance is a fungible holding.
type Balance struct {
	Holder Holder `json:"holder"`
	Amount uint64 `json:"amount"`
}

// Collectible is a single non-fungible unit and its current holding.
type Collectible struct {
	ID    string `json:"id"`
	Owner Holder `json:"owner"`
}
