// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"slices"

	"github.com/alliancehub/hub/alliance"
)

// Set keeps an insertion ordered list of distinct string members in one slot.
// It backs the enumerable indexes of the contracts, which stay small.
type Set struct {
	item *Item[[]string]
}

func NewSet(context *Context, pos alliance.Bytes32) *Set {
	return &Set{item: NewItem[[]string](context, pos)}
}

// Members returns all members in insertion order.
func (s *Set) Members() ([]string, error) {
	return s.item.Get()
}

func (s *Set) Contains(member string) (bool, error) {
	members, err := s.item.Get()
	if err != nil {
		return false, err
	}
	return slices.Contains(members, member), nil
}

// Add inserts member, reporting whether it was absent.
func (s *Set) Add(member string) (bool, error) {
	members, err := s.item.Get()
	if err != nil {
		return false, err
	}
	if slices.Contains(members, member) {
		return false, nil
	}
	return true, s.item.Set(append(members, member))
}

// Remove deletes member, reporting whether it was present.
func (s *Set) Remove(member string) (bool, error) {
	members, err := s.item.Get()
	if err != nil {
		return false, err
	}
	idx := slices.Index(members, member)
	if idx < 0 {
		return false, nil
	}
	members = slices.Delete(members, idx, idx+1)
	if len(members) == 0 {
		s.item.Delete()
		return true, nil
	}
	return true, s.item.Set(members)
}

// MappingSet is a family of Sets keyed by K, e.g. the assets of each user.
type MappingSet[K Key] struct {
	context *Context
	basePos alliance.Bytes32
}

func NewMappingSet[K Key](context *Context, pos alliance.Bytes32) *MappingSet[K] {
	return &MappingSet[K]{context: context, basePos: pos}
}

// At returns the set stored under key.
func (m *MappingSet[K]) At(key K) *Set {
	return NewSet(m.context, alliance.Blake2b(key.Bytes(), m.basePos.Bytes()))
}
