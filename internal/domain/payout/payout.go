// Package payout computes reward shares from a vault total and a split.
package payout

import (
	"github.com/holiman/uint256"

	"github.com/okian/bounty/internal/domain/model"
)

// ValidateSplit rejects weights above 100% individually or in total.
func ValidateSplit(s model.Split) error {
	for _, w := range s {
		if w > model.BasisPoints {
			return model.ErrInvalidSplit
		}
	}
	if s.Sum() > model.BasisPoints {
		return model.ErrInvalidSplit
	}
	return nil
}

// Share returns floor(total * bps / 10000). The product is computed in 256 bits
// so the intermediate never wraps.
func Share(total uint64, bps uint16) (uint64, error) {
	if bps > model.BasisPoints {
		return 0, model.ErrInvalidSplit
	}
	v := new(uint256.Int).Mul(uint256.NewInt(total), uint256.NewInt(uint64(bps)))
	v.Div(v, uint256.NewInt(model.BasisPoints))
	if !v.IsUint64() {
		return 0, model.ErrPayoutOverflow
	}
	return v.Uint64(), nil
}

// Shares returns the share of every podium position.
func Shares(total uint64, s model.Split) ([3]uint64, error) {
	var out [3]uint64
	for i, w := range s {
		v, err := Share(total, w)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
