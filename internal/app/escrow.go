package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/bounty/internal/adapters/ledger"
	"github.com/okian/bounty/internal/adapters/repository"
	"github.com/okian/bounty/internal/domain/keys"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/pkg/logger"
	"github.com/okian/bounty/pkg/metrics"
)

// ClaimReceipt describes what a claim paid out.
type ClaimReceipt struct {
	EventID     uint64         `json:"event_id"`
	Contributor model.Identity `json:"contributor"`
	Rank        string         `json:"rank"`
	Amount      uint64         `json:"amount"`
	Collectible string         `json:"collectible,omitempty"`
}

// EscrowState is the content of an event's vaults.
type EscrowState struct {
	EventID         uint64 `json:"event_id"`
	Vault           string `json:"vault"`
	Balance         uint64 `json:"balance"`
	CollectibleID   string `json:"collectible_id,omitempty"`
	CollectibleHeld bool   `json:"collectible_held"`
}

// DepositRewards moves value from the maintainer into the event vault. Deposits
// close when the event ends.
func (s *Service) DepositRewards(ctx context.Context, caller model.Identity, eventID, amount uint64) (uint64, error) {
	const op = "deposit_rewards"

	var balance uint64
	err := s.mutate(ctx, op, eventID, func(tx repository.Tx) error {
		ev, err := loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		if err := requireMaintainer(ev, caller); err != nil {
			return err
		}
		if amount == 0 {
			return model.ErrInvalidAmount
		}
		if ev.Ended(s.clock.Now()) {
			return model.ErrEventAlreadyEnded
		}

		vault := ledger.RewardsVault(eventID)
		if err := ledger.Transfer(tx, caller.Holder(), vault, amount, caller.Holder()); err != nil {
			return err
		}
		balance, err = ledger.Balance(tx, vault)
		return err
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordDeposit(amount)
	s.logger.Info(ctx, "rewards deposited",
		logger.Uint64("event_id", eventID),
		logger.Uint64("amount", amount),
		logger.Uint64("balance", balance),
	)
	return balance, nil
}

// DepositCollectible escrows the event's collectible. It must happen before the
// event starts, at most once.
func (s *Service) DepositCollectible(ctx context.Context, caller model.Identity, eventID uint64, collectibleID string) (*model.Event, error) {
	const op = "deposit_collectible"

	var ev *model.Event
	err := s.mutate(ctx, op, eventID, func(tx repository.Tx) error {
		var err error
		ev, err = loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		if err := requireMaintainer(ev, caller); err != nil {
			return err
		}
		if strings.TrimSpace(collectibleID) == "" {
			return fmt.Errorf("%w: collectible id required", model.ErrInvalidArgument)
		}
		if ev.Started(s.clock.Now()) {
			return model.ErrEventAlreadyStarted
		}

		vault := ledger.CollectibleVault(eventID)
		if ev.CollectibleID != "" {
			owner, err := ledger.OwnerOf(tx, ev.CollectibleID)
			if err != nil && !errors.Is(err, model.ErrCollectibleNotFound) {
				return err
			}
			if owner == vault {
				return model.ErrCollectibleDeposited
			}
			if ev.CollectibleID != collectibleID {
				return model.ErrCollectibleMismatch
			}
		}

		if err := ledger.TransferCollectible(tx, collectibleID, caller.Holder(), vault, caller.Holder()); err != nil {
			return err
		}
		if ev.CollectibleID == "" {
			ev.CollectibleID = collectibleID
			return saveEvent(tx, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "collectible deposited",
		logger.Uint64("event_id", eventID),
		logger.String("collectible", collectibleID),
	)
	return ev, nil
}

// Claim pays the caller's podium share out of the vault, plus the collectible
// for the winner. Each podium position can claim once.
func (s *Service) Claim(ctx context.Context, caller model.Identity, eventID uint64) (*ClaimReceipt, error) {
	const op = "claim"

	receipt := &ClaimReceipt{EventID: eventID, Contributor: caller}
	var rank model.Rank
	err := s.mutate(ctx, op, eventID, func(tx repository.Tx) error {
		ev, err := loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		if !ev.Ended(s.clock.Now()) {
			return model.ErrEventNotEnded
		}

		var snap model.WinnerSnapshot
		if err := readSnapshot(tx, eventID, &snap); err != nil {
			return err
		}
		var ok bool
		rank, ok = snap.RankOf(caller)
		if !ok || caller == "" {
			return model.ErrInvalidContributor
		}
		if snap.Claimed[rank] {
			return model.ErrAlreadyClaimed
		}

		amount := snap.Shares[rank]
		vault := ledger.RewardsVault(eventID)
		if err := ledger.Transfer(tx, vault, caller.Holder(), amount, vault); err != nil {
			return err
		}
		receipt.Rank = rank.String()
		receipt.Amount = amount

		if rank == model.RankWinner && ev.CollectibleID != "" {
			cvault := ledger.CollectibleVault(eventID)
			owner, err := ledger.OwnerOf(tx, ev.CollectibleID)
			if err != nil {
				return err
			}
			if owner == cvault {
				if err := ledger.TransferCollectible(tx, ev.CollectibleID, cvault, caller.Holder(), cvault); err != nil {
					return err
				}
				receipt.Collectible = ev.CollectibleID
			}
		}

		snap.Claimed[rank] = true
		return tx.Write(keys.Winners(eventID), &snap)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPayout(receipt.Rank, receipt.Amount)
	if receipt.Collectible != "" {
		metrics.RecordCollectibleAwarded()
	}
	s.logger.Info(ctx, "reward claimed",
		logger.Uint64("event_id", eventID),
		logger.String("contributor", string(caller)),
		logger.String("rank", rank.String()),
		logger.Uint64("amount", receipt.Amount),
		logger.String("collectible", receipt.Collectible),
	)
	return receipt, nil
}

// ReclaimRemainder returns what is left in the vault to the maintainer once
// every podium position has claimed.
func (s *Service) ReclaimRemainder(ctx context.Context, caller model.Identity, eventID uint64) (uint64, error) {
	const op = "reclaim_remainder"

	var amount uint64
	err := s.mutate(ctx, op, eventID, func(tx repository.Tx) error {
		ev, err := loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		if err := requireMaintainer(ev, caller); err != nil {
			return err
		}

		var snap model.WinnerSnapshot
		if err := readSnapshot(tx, eventID, &snap); err != nil {
			return err
		}
		if snap.RemainderReclaimed {
			return model.ErrRemainderReclaimed
		}
		if !snap.AllClaimed() {
			return model.ErrClaimsOutstanding
		}

		vault := ledger.RewardsVault(eventID)
		amount, err = ledger.Balance(tx, vault)
		if err != nil {
			return err
		}
		if err := ledger.Transfer(tx, vault, caller.Holder(), amount, vault); err != nil {
			return err
		}
		snap.RemainderReclaimed = true
		return tx.Write(keys.Winners(eventID), &snap)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "remainder reclaimed",
		logger.Uint64("event_id", eventID),
		logger.Uint64("amount", amount),
	)
	return amount, nil
}

// Escrow reports the vault balance and whether the collectible is held.
func (s *Service) Escrow(ctx context.Context, eventID uint64) (*EscrowState, error) {
	vault := ledger.RewardsVault(eventID)
	out := &EscrowState{EventID: eventID, Vault: string(vault)}
	err := s.view(ctx, "escrow", func(tx repository.Tx) error {
		ev, err := loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		out.Balance, err = ledger.Balance(tx, vault)
		if err != nil {
			return err
		}
		out.CollectibleID = ev.CollectibleID
		if ev.CollectibleID == "" {
			return nil
		}
		owner, err := ledger.OwnerOf(tx, ev.CollectibleID)
		if err != nil && !errors.Is(err, model.ErrCollectibleNotFound) {
			return err
		}
		out.CollectibleHeld = owner == ledger.CollectibleVault(eventID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Fund credits a holding outside any event.
func (s *Service) Fund(ctx context.Context, holder model.Holder, amount uint64) error {
	return s.update(ctx, "fund", func(tx repository.Tx) error {
		return ledger.Fund(tx, holder, amount)
	})
}

// MintCollectible registers a collectible held by owner.
func (s *Service) MintCollectible(ctx context.Context, id string, owner model.Holder) error {
	return s.update(ctx, "mint_collectible", func(tx repository.Tx) error {
		return ledger.MintCollectible(tx, id, owner)
	})
}

// Balance returns the value held by holder.
func (s *Service) Balance(ctx context.Context, holder model.Holder) (uint64, error) {
	var v uint64
	err := s.view(ctx, "balance", func(tx repository.Tx) error {
		var err error
		v, err = ledger.Balance(tx, holder)
		return err
	})
	return v, err
}
