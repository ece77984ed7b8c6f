package service

import (
	"context"
	"errors"

	"github.com/okian/bounty/internal/adapters/ledger"
	"github.com/okian/bounty/internal/adapters/repository"
	"github.com/okian/bounty/internal/domain/keys"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/internal/domain/payout"
	"github.com/okian/bounty/internal/domain/ranking"
	"github.com/okian/bounty/pkg/logger"
	"github.com/okian/bounty/pkg/metrics"
)

// FinishEvent freezes the top three contributors and the vault total their
// shares are computed from. It succeeds at most once per event.
func (s *Service) FinishEvent(ctx context.Context, caller model.Identity, eventID uint64) (*model.WinnerSnapshot, error) {
	const op = "finish_event"

	var snap *model.WinnerSnapshot
	err := s.mutate(ctx, op, eventID, func(tx repository.Tx) error {
		ev, err := loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		if err := requireMaintainer(ev, caller); err != nil {
			return err
		}
		now := s.clock.Now().UTC()
		if !ev.Ended(now) {
			return model.ErrEventNotEnded
		}

		exists, err := tx.Exists(keys.Winners(eventID))
		if err != nil {
			return err
		}
		if exists {
			return model.ErrSnapshotExists
		}

		var board model.Leaderboard
		if err := tx.Read(keys.Leaderboard(eventID), &board); err != nil {
			return err
		}
		podium, err := ranking.TopThree(board.Entries)
		if err != nil {
			return err
		}
		total, err := ledger.Balance(tx, ledger.RewardsVault(eventID))
		if err != nil {
			return err
		}
		shares, err := payout.Shares(total, ev.RewardSplit)
		if err != nil {
			return err
		}

		snap = &model.WinnerSnapshot{
			EventID:       eventID,
			Winner:        podium[model.RankWinner].Contributor,
			RunnerUp:      podium[model.RankRunnerUp].Contributor,
			ThirdPlace:    podium[model.RankThirdPlace].Contributor,
			TotalAtFinish: total,
			Shares:        shares,
			FinishedAt:    now,
		}
		err = tx.Create(keys.Winners(eventID), snap)
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.ErrSnapshotExists
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSnapshot()
	s.logger.Info(ctx, "event finished",
		logger.Uint64("event_id", eventID),
		logger.String("winner", string(snap.Winner)),
		logger.String("runner_up", string(snap.RunnerUp)),
		logger.String("third_place", string(snap.ThirdPlace)),
		logger.Uint64("total", snap.TotalAtFinish),
		logger.Uint64("winner_share", snap.Shares[model.RankWinner]),
	)
	return snap, nil
}

// GetWinners returns the frozen podium.
func (s *Service) GetWinners(ctx context.Context, eventID uint64) (*model.WinnerSnapshot, error) {
	snap := &model.WinnerSnapshot{}
	err := s.view(ctx, "get_winners", func(tx repository.Tx) error {
		if _, err := loadEvent(tx, eventID); err != nil {
			return err
		}
		return readSnapshot(tx, eventID, snap)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func readSnapshot(tx repository.Tx, eventID uint64, snap *model.WinnerSnapshot) error {
	err := tx.Read(keys.Winners(eventID), snap)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ErrNotFinalized
	}
	return err
}
