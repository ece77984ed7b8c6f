package repository

import (
	"context"
	"sync"

	"github.com/okian/bounty/internal/domain/keys"
)

// MemoryStore keeps records in process memory. Updates are serialized and
// staged, then folded into the committed map when fn succeeds.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	byNS    map[string]int
	closed  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
		byNS:    make(map[string]int),
	}
}

type memRecord struct {
	namespace string
	data      []byte
}

type memTx struct {
	s        *MemoryStore
	staged   map[string]memRecord
	writable bool
}

func (s *MemoryStore) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tx := &memTx{s: s, staged: make(map[string]memRecord), writable: true}
	if err := fn(tx); err != nil {
		return err
	}
	for k, r := range tx.staged {
		if _, ok := s.records[k]; !ok {
			s.byNS[r.namespace]++
		}
		s.records[k] = r.data
	}
	return nil
}

func (s *MemoryStore) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&memTx{s: s})
}

func (s *MemoryStore) Count(ctx context.Context, namespace string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byNS[namespace], nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (t *memTx) lookup(k string) ([]byte, bool) {
	if r, ok := t.staged[k]; ok {
		return r.data, true
	}
	b, ok := t.s.records[k]
	return b, ok
}

func (t *memTx) Create(key keys.Key, rec any) error {
	if !t.writable {
		return ErrReadOnly
	}
	k := key.String()
	if _, ok := t.lookup(k); ok {
		return ErrAlreadyExists
	}
	b, err := encode(key, rec)
	if err != nil {
		return err
	}
	t.staged[k] = memRecord{namespace: key.Namespace, data: b}
	return nil
}

func (t *memTx) Read(key keys.Key, out any) error {
	b, ok := t.lookup(key.String())
	if !ok {
		return ErrNotFound
	}
	return decode(key, b, out)
}

func (t *memTx) Write(key keys.Key, rec any) error {
	if !t.writable {
		return ErrReadOnly
	}
	k := key.String()
	if _, ok := t.lookup(k); !ok {
		return ErrNotFound
	}
	b, err := encode(key, rec)
	if err != nil {
		return err
	}
	t.staged[k] = memRecord{namespace: key.Namespace, data: b}
	return nil
}

func (t *memTx) Exists(key keys.Key) (bool, error) {
	_, ok := t.lookup(key.String())
	return ok, nil
}
