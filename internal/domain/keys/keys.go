// Package keys derives deterministic storage keys from a namespace and the
// identifiers of a record's parents.
package keys

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

// Namespaces of the records kept by the service.
const (
	NamespaceEvent            = "event"
	NamespaceEventRef         = "event_ref"
	NamespaceIssueBook        = "issue_book"
	NamespaceLeaderboard      = "leaderboard"
	NamespaceWinners          = "winners"
	NamespaceRewardsVault     = "rewards_vault"
	NamespaceCollectibleVault = "collectible_vault"
	NamespaceBalance          = "balance"
	NamespaceCollectible      = "collectible"
)

// Key is a derived storage key.
type Key struct {
	Namespace string
	digest    [sha256.Size]byte
}

// String renders the key as namespace/base58(digest).
func (k Key) String() string {
	return k.Namespace + "/" + base58.Encode(k.digest[:])
}

// Derive hashes the namespace and parts into a key. Every part is length
// prefixed so that ("ab","c") and ("a","bc") never collide.
func Derive(namespace string, parts ...[]byte) Key {
	h := sha256.New()
	writePart(h, []byte(namespace))
	for _, p := range parts {
		writePart(h, p)
	}
	k := Key{Namespace: namespace}
	copy(k.digest[:], h.Sum(nil))
	return k
}

func writePart(h interface{ Write([]byte) (int, error) }, p []byte) {
	var n [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(n[:], uint64(len(p)))
	_, _ = h.Write(n[:l])
	_, _ = h.Write(p)
}

// U64 encodes an id little-endian.
func U64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// Str encodes a string part.
func Str(s string) []byte { return []byte(s) }

// Event keys the event record by maintainer, id and name.
func Event(maintainer string, eventID uint64, name string) Key {
	return Derive(NamespaceEvent, Str(maintainer), U64(eventID), Str(name))
}

// EventRef keys the directory record of an event id.
func EventRef(eventID uint64) Key { return Derive(NamespaceEventRef, U64(eventID)) }

// IssueBook keys the issue book of an event id.
func IssueBook(eventID uint64) Key { return Derive(NamespaceIssueBook, U64(eventID)) }

// Leaderboard keys the leaderboard of an event id.
func Leaderboard(eventID uint64) Key { return Derive(NamespaceLeaderboard, U64(eventID)) }

// Winners keys the winner snapshot of an event id.
func Winners(eventID uint64) Key { return Derive(NamespaceWinners, U64(eventID)) }

// RewardsVault keys the value holding of an event id. Its string form is also
// the authority that signs payouts out of the vault.
func RewardsVault(eventID uint64) Key { return Derive(NamespaceRewardsVault, U64(eventID)) }

// CollectibleVault keys the collectible holding of an event id.
func CollectibleVault(eventID uint64) Key { return Derive(NamespaceCollectibleVault, U64(eventID)) }

// Balance keys the fungible balance of a holder.
func Balance(holder string) Key { return Derive(NamespaceBalance, Str(holder)) }

// Collectible keys a collectible unit.
func Collectible(id string) Key { return Derive(NamespaceCollectible, Str(id)) }
