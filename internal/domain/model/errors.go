package model

import (
	"errors"
)

// Error kinds. Every specific error below wraps exactly one of these, so callers
// can branch with errors.Is on the kind.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporal         = errors.New("temporal violation")
	ErrNotFound         = errors.New("not found")
	ErrInsufficientData = errors.New("insufficient data")
	ErrIdentityMismatch = errors.New("identity mismatch")
	ErrArithmetic       = errors.New("arithmetic")
	ErrConflict         = errors.New("conflict")
	ErrInvalidArgument  = errors.New("invalid argument")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Authorization.
var (
	ErrUnauthorizedMaintainer = newError(ErrUnauthorized, "only the event maintainer can perform this action")
	ErrNotOwner               = newError(ErrUnauthorized, "authority does not control the holding")
)

// Identity.
var (
	ErrInvalidMaintainer = newError(ErrIdentityMismatch, "invalid maintainer")
	ErrInvalidEventID    = newError(ErrIdentityMismatch, "invalid event id")
)

// Schedule.
var (
	ErrEventNotEnded       = newError(ErrTemporal, "event not ended")
	ErrEventAlreadyEnded   = newError(ErrTemporal, "event already ended")
	ErrEventAlreadyStarted = newError(ErrTemporal, "event already started")
)

// Lookup.
var (
	ErrEventNotFound       = newError(ErrNotFound, "event not found")
	ErrInvalidIssueID      = newError(ErrNotFound, "invalid issue id")
	ErrInvalidContributor  = newError(ErrNotFound, "invalid contributor")
	ErrNotFinalized        = newError(ErrNotFound, "winners not finalized")
	ErrCollectibleNotFound = newError(ErrNotFound, "collectible not found")
)

// Data sufficiency.
var (
	ErrNotEnoughEntries  = newError(ErrInsufficientData, "not enough leaderboard entries")
	ErrInsufficientFunds = newError(ErrInsufficientData, "insufficient funds")
)

// Arithmetic.
var (
	ErrPointsOverflow  = newError(ErrArithmetic, "points overflow")
	ErrPayoutOverflow  = newError(ErrArithmetic, "payout overflow")
	ErrBalanceOverflow = newError(ErrArithmetic, "balance overflow")
)

// State conflicts.
var (
	ErrEventExists          = newError(ErrConflict, "event already exists")
	ErrSnapshotExists       = newError(ErrConflict, "winners already finalized")
	ErrAlreadyClaimed       = newError(ErrConflict, "reward already claimed")
	ErrDuplicateIssue       = newError(ErrConflict, "duplicate issue id")
	ErrIssueBookFull        = newError(ErrConflict, "issue book is full")
	ErrLeaderboardFull      = newError(ErrConflict, "leaderboard is full")
	ErrCollectibleDeposited = newError(ErrConflict, "collectible already deposited")
	ErrCollectibleMismatch  = newError(ErrConflict, "collectible does not match the event")
	ErrClaimsOutstanding    = newError(ErrConflict, "rewards still unclaimed")
	ErrRemainderReclaimed   = newError(ErrConflict, "remainder already reclaimed")
)

// Validation.
var (
	ErrInvalidSplit    = newError(ErrInvalidArgument, "invalid reward split")
	ErrInvalidSchedule = newError(ErrInvalidArgument, "end date must be after start date")
	ErrInvalidName     = newError(ErrInvalidArgument, "invalid event name")
	ErrInvalidAmount   = newError(ErrInvalidArgument, "amount must be positive")
	ErrInvalidIdentity = newError(ErrInvalidArgument, "identity must not be empty")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrTemporal, "temporal"},
	{ErrNotFound, "not_found"},
	{ErrInsufficientData, "insufficient_data"},
	{ErrIdentityMismatch, "identity_mismatch"},
	{ErrArithmetic, "arithmetic"},
	{ErrConflict, "conflict"},
	{ErrInvalidArgument, "invalid_argument"},
}

// Kind returns a short label for the kind err belongs to, or "internal".
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
