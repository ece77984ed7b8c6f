package model

import (
	"time"
)

// Rank is a podium position.
type Rank int

// Podium positions in payout order.
const (
	RankWinner Rank = iota
	RankRunnerUp
	RankThirdPlace
)

// String returns the label used in logs, metrics and API payloads.
func (r Rank) String() string {
	switch r {
	case RankWinner:
		return "winner"
	case RankRunnerUp:
		return "runner_up"
	case RankThirdPlace:
		return "third_place"
	default:
		return "unranked"
	}
}

// WinnerSnapshot is the podium frozen when the event is finished.
type WinnerSnapshot struct {
	EventID    uint64   `json:"event_id"`
	Winner     Identity `json:"winner"`
	RunnerUp   Identity `json:"runner_up"`
	ThirdPlace Identity `json:"third_place"`

	// TotalAtFinish is the vault balance shares are computed from.
	TotalAtFinish uint64 `json:"total_at_finish"`

	// Shares is the payout of each podium position, indexed by Rank.
	Shares [3]uint64 `json:"shares"`

	// Claimed is indexed by Rank.
	Claimed            [3]bool   `json:"claimed"`
	RemainderReclaimed bool      `json:"remainder_reclaimed"`
	FinishedAt         time.Time `json:"finished_at"`
}

// Podium returns the three identities in rank order.
func (w *WinnerSnapshot) Podium() [3]Identity {
	return [3]Identity{w.Winner, w.RunnerUp, w.ThirdPlace}
}

// RankOf returns the podium position of id.
func (w *WinnerSnapshot) RankOf(id Identity) (Rank, bool) {
	for i, p := range w.Podium() {
		if p == id {
			return Rank(i), true
		}
	}
	return 0, false
}

// AllClaimed reports whether every podium position has been paid.
func (w *WinnerSnapshot) AllClaimed() bool {
	return w.Claimed[RankWinner] && w.Claimed[RankRunnerUp] && w.Claimed[RankThirdPlace]
}
