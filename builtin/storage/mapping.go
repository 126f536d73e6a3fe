// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/alliancehub/hub/alliance"
)

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded under blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos alliance.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos alliance.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) alliance.Bytes32 {
	return alliance.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the stored value, or the zero value of V if absent.
// For pointer types a freshly allocated zero value is returned instead of nil.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	value, _, err = m.Lookup(key)
	return
}

// Lookup is Get that also reports whether the key was set.
func (m *Mapping[K, V]) Lookup(key K) (value V, exists bool, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		exists = true
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
