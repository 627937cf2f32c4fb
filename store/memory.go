// Package store provides the persistence backends for guardian sets,
// consumed message hashes and the message fee. The in-memory store backs
// tests and embedders that bring their own durability; the badger store
// gives the CLI durable state on disk.
package store

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/wormhole-foundation/corebridge/guardian"
)

// MemStore keeps all state in memory. The mutex only guards against
// accidental cross-goroutine use; callers are expected to serialize
// logically conflicting operations themselves.
type MemStore struct {
	mu       sync.Mutex
	sets     map[uint32]guardian.Set
	current  uint32
	hasSets  bool
	consumed map[common.Hash]bool
	fee      *uint256.Int
}

func NewMemStore() *MemStore {
	return &MemStore{
		sets:     make(map[uint32]guardian.Set),
		consumed: make(map[common.Hash]bool),
		fee:      uint256.NewInt(0),
	}
}

func (m *MemStore) GuardianSet(index uint32) (guardian.Set, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[index]
	return set, ok, nil
}

func (m *MemStore) CurrentIndex() (uint32, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current, m.hasSets, nil
}

func (m *MemStore) Bootstrap(initial guardian.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasSets {
		return guardian.ErrAlreadyBootstrapped
	}

	m.sets[initial.Index] = initial
	m.current = initial.Index
	m.hasSets = true
	return nil
}

func (m *MemStore) CommitRotation(outgoing, incoming guardian.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets[outgoing.Index] = outgoing
	m.sets[incoming.Index] = incoming
	m.current = incoming.Index
	return nil
}

func (m *MemStore) IsConsumed(hash common.Hash) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.consumed[hash], nil
}

func (m *MemStore) MarkConsumed(hash common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consumed[hash] = true
	return nil
}

func (m *MemStore) MessageFee() (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fee.Clone(), nil
}

func (m *MemStore) SetMessageFee(fee *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fee = fee.Clone()
	return nil
}

func (m *MemStore) Close() error {
	return nil
}
