package handstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Keyspace: hand documents live under "hand:<id>" so a prefix iterator
// doubles as the batch cursor.
const handKeyPrefix = "hand:"

var (
	// ErrNotFound is returned when a hand document does not exist.
	ErrNotFound = errors.New("handstore: hand not found")

	// ErrMissTarget is returned when a hero-action slot cannot be resolved
	// inside an existing hand. Callers log and continue; it never aborts a
	// batch.
	ErrMissTarget = errors.New("handstore: hero action slot not found")

	// ErrTransport wraps store-level failures (open, read, write).
	ErrTransport = errors.New("handstore: transport")
)

// Store is a Badger-backed document store for hand histories.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is required", ErrTransport)
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrTransport, path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func handKey(id string) []byte {
	return []byte(handKeyPrefix + id)
}

// PutHand stores a hand document, overwriting any previous version.
func (s *Store) PutHand(ctx context.Context, hand *Hand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if hand == nil || hand.ID == "" {
		return fmt.Errorf("%w: hand id is required", ErrTransport)
	}

	raw, err := json.Marshal(hand)
	if err != nil {
		return fmt.Errorf("%w: marshal hand %s: %v", ErrTransport, hand.ID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(handKey(hand.ID), raw)
	})
	if err != nil {
		return fmt.Errorf("%w: put hand %s: %v", ErrTransport, hand.ID, err)
	}
	return nil
}

// GetHand loads a hand document by id.
func (s *Store) GetHand(ctx context.Context, id string) (*Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var hand Hand
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(handKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &hand)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get hand %s: %v", ErrTransport, id, err)
	}
	return &hand, nil
}

// ModelSlots carries the serialized outputs written to one hero action.
type ModelSlots struct {
	ResponseModel       json.RawMessage
	ResponseFrequencies json.RawMessage
	GTOFrequencies      json.RawMessage
	ResponseRanges      json.RawMessage
}

// WriteHeroActionModel sets the response-model slots on one hero action in a
// single read-modify-write transaction. The write is idempotent: when every
// slot already holds byte-identical content the document is left untouched.
// Returns (false, ErrMissTarget) when the hero-action slot is unresolvable.
func (s *Store) WriteHeroActionModel(ctx context.Context, handID, actionID string, slots ModelSlots) (written bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(handKey(handID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		var hand Hand
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &hand)
		}); err != nil {
			return err
		}

		slot := hand.HeroActionByID(actionID)
		if slot == nil {
			return ErrMissTarget
		}

		if bytes.Equal(slot.ResponseModel, slots.ResponseModel) &&
			bytes.Equal(slot.ResponseFrequencies, slots.ResponseFrequencies) &&
			bytes.Equal(slot.GTOFrequencies, slots.GTOFrequencies) &&
			bytes.Equal(slot.ResponseRanges, slots.ResponseRanges) {
			return nil // no-op rewrite
		}

		slot.ResponseModel = slots.ResponseModel
		slot.ResponseFrequencies = slots.ResponseFrequencies
		slot.GTOFrequencies = slots.GTOFrequencies
		slot.ResponseRanges = slots.ResponseRanges

		raw, err := json.Marshal(&hand)
		if err != nil {
			return err
		}
		written = true
		return txn.Set(handKey(handID), raw)
	})

	switch {
	case err == nil:
		return written, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMissTarget):
		return false, err
	default:
		return false, fmt.Errorf("%w: write model %s/%s: %v", ErrTransport, handID, actionID, err)
	}
}

// Cursor streams hand documents in key order. It holds a read transaction
// open for its lifetime, so callers must Close it; concurrent writes land in
// separate transactions and are invisible to the snapshot.
type Cursor struct {
	txn  *badger.Txn
	it   *badger.Iterator
	user string
}

// NewCursor opens a streaming cursor over all hands. A non-empty username
// restricts the stream to hands owned by that user.
func (s *Store) NewCursor(username string) *Cursor {
	txn := s.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(handKeyPrefix)

	it := txn.NewIterator(opts)
	it.Rewind()

	return &Cursor{txn: txn, it: it, user: username}
}

// Next returns the next hand in the stream, or (nil, nil) when exhausted.
func (c *Cursor) Next(ctx context.Context) (*Hand, error) {
	for c.it.Valid() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var hand Hand
		err := c.it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &hand)
		})
		c.it.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: cursor read: %v", ErrTransport, err)
		}

		if c.user != "" && hand.Username != c.user {
			continue
		}
		return &hand, nil
	}
	return nil, nil
}

// Close releases the cursor's iterator and transaction.
func (c *Cursor) Close() {
	c.it.Close()
	c.txn.Discard()
}
