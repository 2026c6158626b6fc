// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package lookupstore

import (
	"sync"

	"github.com/ledgerwatch/erigon-lib/kv"
)

// BatchWriter accumulates Put/Delete calls against a single kv.RwTx so
// a whole Commit (new lookup_table entries plus phase_change
// watermarks) lands in one MDBX transaction.
type BatchWriter struct {
	tx      kv.RwTx
	pending int
	mu      sync.Mutex
}

// NewBatchWriter wraps tx for batched writes.
func NewBatchWriter(tx kv.RwTx) *BatchWriter {
	return &BatchWriter{tx: tx}
}

// Put adds a key-value pair to the batch.
func (b *BatchWriter) Put(bucket string, key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.tx.Put(bucket, key, value); err != nil {
		return err
	}
	b.pending++
	return nil
}

// Delete removes a key from the batch.
func (b *BatchWriter) Delete(bucket string, key []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.tx.Delete(bucket, key); err != nil {
		return err
	}
	b.pending++
	return nil
}

// Pending returns the number of pending operations.
func (b *BatchWriter) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// lookupKeySize is the width of a LookupTable key: an 8-byte
// big-endian uint64 index.
const lookupKeySize = 8

// LookupKeyBuffer pools the 8-byte key buffers used to address
// LookupTable entries, avoiding one allocation per GetEntry/Commit
// key on the hot path of a large Expand.
var LookupKeyBuffer = NewKeyBuffer(lookupKeySize)

// KeyBuffer is a reusable fixed-size key buffer pool.
type KeyBuffer struct {
	pool sync.Pool
	size int
}

// NewKeyBuffer creates a new key buffer pool for keys of the given size.
func NewKeyBuffer(keySize int) *KeyBuffer {
	return &KeyBuffer{
		size: keySize,
		pool: sync.Pool{
			New: func() interface{} {
				b := make([]byte, keySize)
				return &b
			},
		},
	}
}

// Get gets a key buffer from the pool.
func (kb *KeyBuffer) Get() []byte {
	return *kb.pool.Get().(*[]byte)
}

// Put returns a key buffer to the pool.
func (kb *KeyBuffer) Put(b []byte) {
	if cap(b) == kb.size {
		bp := b[:kb.size]
		kb.pool.Put(&bp)
	}
}

// valueBufferPool pools felt-value byte buffers; a BLS12-381 scalar
// never exceeds 32 bytes, so a single size class covers every entry.
var valueBufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 32)
		return &b
	},
}

// GetValueBuffer gets a value buffer of at least the given size.
func GetValueBuffer(size int) []byte {
	if size > 32 {
		return make([]byte, size)
	}
	bp := valueBufferPool.Get().(*[]byte)
	return (*bp)[:size]
}

// PutValueBuffer returns a value buffer to the pool.
func PutValueBuffer(b []byte) {
	if cap(b) == 32 {
		bp := b[:32]
		valueBufferPool.Put(&bp)
	}
}
