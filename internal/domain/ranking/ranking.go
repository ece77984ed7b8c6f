// Package ranking orders leaderboard entries into a podium.
package ranking

import (
	"sort"

	"github.com/okian/bounty/internal/domain/model"
)

// PodiumSize is the number of ranked positions that receive a share.
const PodiumSize = 3

// less orders by points descending, then contributor ascending.
func less(a, b model.Entry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	return a.Contributor < b.Contributor
}

// Sorted returns a copy of entries in podium order.
func Sorted(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// TopThree returns the winner, runner-up and third place.
func TopThree(entries []model.Entry) ([PodiumSize]model.Entry, error) {
	var podium [PodiumSize]model.Entry
	if len(entries) < PodiumSize {
		return podium, model.ErrNotEnoughEntries
	}
	sorted := Sorted(entries)
	copy(podium[:], sorted[:PodiumSize])
	return podium, nil
}
