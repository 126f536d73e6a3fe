// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/cache"
	"github.com/alliancehub/hub/kv"
	"github.com/alliancehub/hub/stackedmap"
)

const (
	storagePrefix = "s"
	balancePrefix = "b"

	defaultCacheSize = 4096
)

// ErrInsufficientFunds is returned when a bank debit exceeds the account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State holds contract storage slots and bank balances on top of a kv store.
// Every write lands in a journaled stack level, so callers can checkpoint and
// revert any nested execution before the changes are committed.
type State struct {
	db    kv.Store
	cache *cache.LRU[string, []byte] // committed values only
	sm    *stackedmap.StackedMap[string, []byte]
}

// New create state object.
func New(db kv.Store) *State {
	c, _ := cache.NewLRU[string, []byte](defaultCacheSize)
	s := &State{db: db, cache: c}
	s.sm = stackedmap.New(s.cacheGetter)
	s.sm.Push()
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key string) ([]byte, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(key string) ([]byte, error) {
		val, err := s.db.Get([]byte(key))
		if err != nil {
			if s.db.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func storageKey(addr alliance.Address, key alliance.Bytes32) string {
	return storagePrefix + string(addr[:]) + string(key[:])
}

func balanceKey(addr alliance.Address, denom string) string {
	return balancePrefix + string(addr[:]) + denom
}

// GetRawStorage returns the raw storage value for given address and key.
// An empty value means the slot is unset.
func (s *State) GetRawStorage(addr alliance.Address, key alliance.Bytes32) ([]byte, error) {
	data, _, err := s.sm.Get(storageKey(addr, key))
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set raw storage value. Passing an empty value clears the slot.
func (s *State) SetRawStorage(addr alliance.Address, key alliance.Bytes32, raw []byte) {
	s.sm.Put(storageKey(addr, key), raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr alliance.Address, key alliance.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr alliance.Address, key alliance.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// GetBalance returns the bank balance of addr in denom.
func (s *State) GetBalance(addr alliance.Address, denom string) (*uint256.Int, error) {
	data, _, err := s.sm.Get(balanceKey(addr, denom))
	if err != nil {
		return nil, &Error{err}
	}
	return new(uint256.Int).SetBytes(data), nil
}

// SetBalance overwrites the bank balance of addr in denom.
func (s *State) SetBalance(addr alliance.Address, denom string, balance *uint256.Int) {
	if balance.IsZero() {
		s.sm.Put(balanceKey(addr, denom), nil)
		return
	}
	s.sm.Put(balanceKey(addr, denom), balance.Bytes())
}

// AddBalance credits amount to addr.
func (s *State) AddBalance(addr alliance.Address, denom string, amount *uint256.Int) error {
	bal, err := s.GetBalance(addr, denom)
	if err != nil {
		return err
	}
	bal, err = alliance.AddAmount(bal, amount)
	if err != nil {
		return errors.Wrapf(err, "credit %v%v to %v", amount, denom, addr)
	}
	s.SetBalance(addr, denom, bal)
	return nil
}

// SubBalance debits amount from addr.
func (s *State) SubBalance(addr alliance.Address, denom string, amount *uint256.Int) error {
	bal, err := s.GetBalance(addr, denom)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%v has %v%v, needs %v", addr, bal, denom, amount)
	}
	s.SetBalance(addr, denom, new(uint256.Int).Sub(bal, amount))
	return nil
}

// Transfer moves coins between two accounts.
func (s *State) Transfer(from, to alliance.Address, coins alliance.Coins) error {
	for _, c := range coins {
		if c.Amount.IsZero() {
			continue
		}
		if err := s.SubBalance(from, c.Denom, c.Amount); err != nil {
			return err
		}
		if err := s.AddBalance(to, c.Denom, c.Amount); err != nil {
			return err
		}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// Commit flushes every journaled change into the underlying store and
// resets the revision stack.
func (s *State) Commit() error {
	changes := make(map[string][]byte)
	var order []string
	for _, entry := range s.sm.Journal() {
		if _, ok := changes[entry.Key]; !ok {
			order = append(order, entry.Key)
		}
		changes[entry.Key] = entry.Value
	}

	batch := s.db.NewBatch()
	var puts, deletes int64
	for _, key := range order {
		val := changes[key]
		if len(val) == 0 {
			if err := batch.Delete([]byte(key)); err != nil {
				return &Error{err}
			}
			deletes++
		} else {
			if err := batch.Put([]byte(key), val); err != nil {
				return &Error{err}
			}
			puts++
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	for _, key := range order {
		s.cache.Add(key, changes[key])
	}
	metricStateWrites().AddWithLabel(puts, map[string]string{"type": "put"})
	metricStateWrites().AddWithLabel(deletes, map[string]string{"type": "delete"})
	hit, miss := s.cache.Stats()
	metricCacheStats().SetWithLabel(hit, map[string]string{"result": "hit"})
	metricCacheStats().SetWithLabel(miss, map[string]string{"result": "miss"})

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
