package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wormhole-foundation/corebridge/guardian"
)

var (
	storedSetTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "corebridge_db_total_guardian_sets",
			Help: "Total number of guardian sets written to the database",
		})
	consumedHashTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "corebridge_db_total_consumed_hashes",
			Help: "Total number of message hashes marked as consumed",
		})
)

var (
	currentSetKey = []byte("meta/current_set")
	messageFeeKey = []byte("meta/message_fee")
)

func guardianSetKey(index uint32) []byte {
	key := make([]byte, 0, 14)
	key = append(key, "gset/"...)
	key = binary.BigEndian.AppendUint32(key, index)
	return key
}

func consumedKey(hash common.Hash) []byte {
	return []byte(fmt.Sprintf("consumed/%s", hash.Hex()))
}

// BadgerStore persists bridge state in a BadgerDB. Each Store method runs in
// its own transaction; CommitRotation performs all three writes of a
// rotation in a single one.
type BadgerStore struct {
	db *badger.DB
}

// Open opens or creates the database under the given directory.
func Open(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) GuardianSet(index uint32) (set guardian.Set, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(guardianSetKey(index))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return set.UnmarshalBinary(val)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return guardian.Set{}, false, nil
	}
	if err != nil {
		return guardian.Set{}, false, err
	}
	return set, true, nil
}

func (s *BadgerStore) CurrentIndex() (index uint32, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(currentSetKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 4 {
				return fmt.Errorf("malformed current set index entry")
			}
			index = binary.BigEndian.Uint32(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return index, true, nil
}

func (s *BadgerStore) Bootstrap(initial guardian.Set) error {
	b, err := initial.MarshalBinary()
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(currentSetKey); err == nil {
			return guardian.ErrAlreadyBootstrapped
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(guardianSetKey(initial.Index), b); err != nil {
			return err
		}
		return txn.Set(currentSetKey, binary.BigEndian.AppendUint32(nil, initial.Index))
	})
	if err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	storedSetTotal.Inc()
	return nil
}

func (s *BadgerStore) CommitRotation(outgoing, incoming guardian.Set) error {
	outBytes, err := outgoing.MarshalBinary()
	if err != nil {
		return err
	}
	inBytes, err := incoming.MarshalBinary()
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(guardianSetKey(outgoing.Index), outBytes); err != nil {
			return err
		}
		if err := txn.Set(guardianSetKey(incoming.Index), inBytes); err != nil {
			return err
		}
		return txn.Set(currentSetKey, binary.BigEndian.AppendUint32(nil, incoming.Index))
	})
	if err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	storedSetTotal.Inc()
	return nil
}

func (s *BadgerStore) IsConsumed(hash common.Hash) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(consumedKey(hash))
		return err
	})
	if err == nil {
		return true, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return false, err
}

func (s *BadgerStore) MarkConsumed(hash common.Hash) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(consumedKey(hash), []byte{1})
	})
	if err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	consumedHashTotal.Inc()
	return nil
}

func (s *BadgerStore) MessageFee() (*uint256.Int, error) {
	fee := uint256.NewInt(0)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageFeeKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			fee.SetBytes(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	return fee, nil
}

func (s *BadgerStore) SetMessageFee(fee *uint256.Int) error {
	b := fee.Bytes32()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageFeeKey, b[:])
	})
	if err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

// Conn returns a pointer to the underlying database connection.
func (s *BadgerStore) Conn() *badger.DB {
	return s.db
}
