// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv declares the key-value store the state layer persists into.
package kv

type Getter interface {
	// Get returns the value of key, or an error satisfying IsNotFound.
	Get(key []byte) ([]byte, error)
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch buffers writes until Write applies them atomically.
type Batch interface {
	Putter
	Write() error
}

// Store is a key-value store with atomic batched writes.
type Store interface {
	Getter
	Put(key, val []byte) error
	NewBatch() Batch
	Close() error
}
