package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okian/bounty/internal/adapters/ledger"
	"github.com/okian/bounty/internal/adapters/repository"
	"github.com/okian/bounty/internal/domain/keys"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/internal/domain/payout"
	"github.com/okian/bounty/pkg/logger"
	"github.com/okian/bounty/pkg/metrics"
)

// CreateEventInput describes a new event.
type CreateEventInput struct {
	EventID     uint64
	Name        string
	Maintainer  model.Identity
	StartDate   time.Time
	EndDate     time.Time
	RewardSplit model.Split

	// CollectibleID optionally pins the collectible a later deposit must use.
	CollectibleID string

	// InitialDeposit is moved from the maintainer into the rewards vault.
	InitialDeposit uint64
}

func (s *Service) validateCreate(caller model.Identity, in CreateEventInput) error {
	if caller == "" {
		return model.ErrInvalidIdentity
	}
	if in.Maintainer != caller {
		return model.ErrInvalidMaintainer
	}
	if strings.TrimSpace(in.Name) == "" || utf8.RuneCountInString(in.Name) > s.maxNameLength {
		return model.ErrInvalidName
	}
	if !in.EndDate.After(in.StartDate) {
		return model.ErrInvalidSchedule
	}
	return payout.ValidateSplit(in.RewardSplit)
}

// CreateEvent registers an event together with its empty issue book and
// leaderboard, and funds its vault with the initial deposit.
func (s *Service) CreateEvent(ctx context.Context, caller model.Identity, in CreateEventInput) (*model.Event, error) {
	const op = "create_event"

	ev := &model.Event{
		EventID:       in.EventID,
		Name:          in.Name,
		Maintainer:    in.Maintainer,
		StartDate:     in.StartDate.UTC(),
		EndDate:       in.EndDate.UTC(),
		RewardSplit:   in.RewardSplit,
		CollectibleID: in.CollectibleID,
	}

	err := s.mutate(ctx, op, in.EventID, func(tx repository.Tx) error {
		if err := s.validateCreate(caller, in); err != nil {
			return err
		}
		ev.CreatedAt = s.clock.Now().UTC()

		err := tx.Create(keys.EventRef(ev.EventID), model.EventRef{
			EventID:    ev.EventID,
			Maintainer: ev.Maintainer,
			Name:       ev.Name,
		})
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.ErrEventExists
		}
		if err != nil {
			return err
		}

		records := []struct {
			key keys.Key
			rec any
		}{
			{keys.Event(string(ev.Maintainer), ev.EventID, ev.Name), ev},
			{keys.IssueBook(ev.EventID), &model.IssueBook{
				EventID:  ev.EventID,
				Capacity: s.issueBookCapacity,
				Issues:   []model.Issue{},
			}},
			{keys.Leaderboard(ev.EventID), &model.Leaderboard{
				EventID:     ev.EventID,
				Capacity:    s.leaderboardCapacity,
				LastUpdated: ev.StartDate,
				Entries:     []model.Entry{},
			}},
		}
		for _, r := range records {
			if err := tx.Create(r.key, r.rec); err != nil {
				if errors.Is(err, repository.ErrAlreadyExists) {
					return model.ErrEventExists
				}
				return err
			}
		}

		if in.InitialDeposit > 0 {
			vault := ledger.RewardsVault(ev.EventID)
			if err := ledger.Transfer(tx, caller.Holder(), vault, in.InitialDeposit, caller.Holder()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.InitialDeposit > 0 {
		metrics.RecordDeposit(in.InitialDeposit)
	}
	s.logger.Info(ctx, "event created",
		logger.Uint64("event_id", ev.EventID),
		logger.String("maintainer", string(ev.Maintainer)),
		logger.Time("start", ev.StartDate),
		logger.Time("end", ev.EndDate),
		logger.Uint64("initial_deposit", in.InitialDeposit),
	)
	return ev, nil
}

// GetEvent returns the event configuration.
func (s *Service) GetEvent(ctx context.Context, eventID uint64) (*model.Event, error) {
	var ev *model.Event
	err := s.view(ctx, "get_event", func(tx repository.Tx) error {
		var err error
		ev, err = loadEvent(tx, eventID)
		return err
	})
	return ev, err
}
