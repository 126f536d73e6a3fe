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

// Item is a single rlp encoded value stored at a fixed slot.
type Item[V any] struct {
	context *Context
	pos     alliance.Bytes32
}

func NewItem[V any](context *Context, pos alliance.Bytes32) *Item[V] {
	return &Item[V]{context: context, pos: pos}
}

func (i *Item[V]) Get() (value V, err error) {
	value, _, err = i.Lookup()
	return
}

func (i *Item[V]) Lookup() (value V, exists bool, err error) {
	err = i.context.state.DecodeStorage(i.context.address, i.pos, func(raw []byte) error {
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

func (i *Item[V]) Set(value V) error {
	return i.context.state.EncodeStorage(i.context.address, i.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (i *Item[V]) Delete() {
	i.context.state.SetRawStorage(i.context.address, i.pos, nil)
}
