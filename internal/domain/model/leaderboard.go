package model

import (
	"math/bits"
	"time"
)

// Entry is one contributor's accumulated points.
type Entry struct {
	Contributor Identity `json:"contributor"`
	Points      uint64   `json:"points"`
}

// Leaderboard accumulates points per contributor for one event.
type Leaderboard struct {
	EventID     uint64    `json:"event_id"`
	Capacity    int       `json:"capacity"`
	LastUpdated time.Time `json:"last_updated"`
	Entries     []Entry   `json:"entries"`
}

// Credit adds points to contributor, creating the entry on first credit.
// Overflow fails instead of wrapping and leaves the board untouched.
func (l *Leaderboard) Credit(contributor Identity, points uint64, at time.Time) error {
	for i := range l.Entries {
		e := &l.Entries[i]
		if e.Contributor != contributor {
			continue
		}
		sum, carry := bits.Add64(e.Points, points, 0)
		if carry != 0 {
			return ErrPointsOverflow
		}
		e.Points = sum
		l.LastUpdated = at
		return nil
	}

	if len(l.Entries) >= l.Capacity {
		return ErrLeaderboardFull
	}
	l.Entries = append(l.Entries, Entry{Contributor: contributor, Points: points})
	l.LastUpdated = at
	return nil
}

// Total sums points across entries. The sum of resolved issue points was
// checked entry by entry, not globally, so the total saturates.
func (l *Leaderboard) Total() uint64 {
	var total uint64
	for _, e := range l.Entries {
		sum, carry := bits.Add64(total, e.Points, 0)
		if carry != 0 {
			return ^uint64(0)
		}
		total = sum
	}
	return total
}
