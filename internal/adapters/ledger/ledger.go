// Package ledger moves fungible value and collectibles between holdings. It
// works inside a caller's store transaction so transfers commit together with
// the state change that caused them.
package ledger

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/okian/bounty/internal/adapters/repository"
	"github.com/okian/bounty/internal/domain/keys"
	"github.com/okian/bounty/internal/domain/model"
)

// RewardsVault is the holding that escrows an event's value. Only the
// vault itself may authorize transfers out of it.
func RewardsVault(eventID uint64) model.Holder {
	return model.Holder(keys.RewardsVault(eventID).String())
}

// CollectibleVault is the holding that escrows an event's collectible.
func CollectibleVault(eventID uint64) model.Holder {
	return model.Holder(keys.CollectibleVault(eventID).String())
}

// Balance returns the amount held by h. Unknown holders hold zero.
func Balance(tx repository.Tx, h model.Holder) (uint64, error) {
	var b model.Balance
	err := tx.Read(keys.Balance(string(h)), &b)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return b.Amount, nil
}

func setBalance(tx repository.Tx, h model.Holder, amount uint64) error {
	k := keys.Balance(string(h))
	rec := model.Balance{Holder: h, Amount: amount}
	err := tx.Write(k, rec)
	if errors.Is(err, repository.ErrNotFound) {
		return tx.Create(k, rec)
	}
	return err
}

// Fund credits h out of thin air. Used to seed balances.
func Fund(tx repository.Tx, h model.Holder, amount uint64) error {
	if h == "" {
		return model.ErrInvalidIdentity
	}
	cur, err := Balance(tx, h)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(cur, amount, 0)
	if carry != 0 {
		return model.ErrBalanceOverflow
	}
	return setBalance(tx, h, sum)
}

// Transfer moves amount from one holding to another. authority must control
// the source holding.
func Transfer(tx repository.Tx, from, to model.Holder, amount uint64, authority model.Holder) error {
	if authority != from {
		return model.ErrNotOwner
	}
	if amount == 0 || from == to {
		return nil
	}

	src, err := Balance(tx, from)
	if err != nil {
		return err
	}
	if src < amount {
		return model.ErrInsufficientFunds
	}
	dst, err := Balance(tx, to)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(dst, amount, 0)
	if carry != 0 {
		return model.ErrBalanceOverflow
	}

	if err := setBalance(tx, from, src-amount); err != nil {
		return err
	}
	return setBalance(tx, to, sum)
}

// MintCollectible creates a collectible held by owner.
func MintCollectible(tx repository.Tx, id string, owner model.Holder) error {
	if id == "" || owner == "" {
		return model.ErrInvalidIdentity
	}
	err := tx.Create(keys.Collectible(id), model.Collectible{ID: id, Owner: owner})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return fmt.Errorf("%w: collectible %q already minted", model.ErrConflict, id)
	}
	return err
}

// OwnerOf returns the holding of collectible id.
func OwnerOf(tx repository.Tx, id string) (model.Holder, error) {
	var c model.Collectible
	err := tx.Read(keys.Collectible(id), &c)
	if errors.Is(err, repository.ErrNotFound) {
		return "", model.ErrCollectibleNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Owner, nil
}

// TransferCollectible moves collectible id between holdings. authority must
// control the source holding, which must currently hold the collectible.
func TransferCollectible(tx repository.Tx, id string, from, to model.Holder, authority model.Holder) error {
	if authority != from {
		return model.ErrNotOwner
	}
	owner, err := OwnerOf(tx, id)
	if err != nil {
		return err
	}
	if owner != from {
		return model.ErrNotOwner
	}
	return tx.Write(keys.Collectible(id), model.Collectible{ID: id, Owner: to})
}
