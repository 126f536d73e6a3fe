// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import "encoding/binary"

type Key interface {
	Bytes() []byte
}

// StringKey adapts a plain string to Key.
type StringKey string

func (k StringKey) Bytes() []byte { return []byte(k) }

// CompositeKey joins several keys without ambiguity.
type CompositeKey []byte

func (k CompositeKey) Bytes() []byte { return k }

// Join builds a CompositeKey, length-prefixing every part.
func Join(parts ...Key) CompositeKey {
	var out []byte
	for _, p := range parts {
		b := p.Bytes()
		out = binary.BigEndian.AppendUint32(out, uint32(len(b)))
		out = append(out, b...)
	}
	return out
}
