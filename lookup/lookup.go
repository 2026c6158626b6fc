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

// Package lookup implements Starknet's stateful-compression address
// and key lookup table: a persistent index -> felt dictionary, fed by
// storage updates on the sentinel "alias" contract and consulted by
// later blobs that address entries by compact index.
package lookup

import (
	"math/big"
	"sort"
	"sync"

	"github.com/n42blockchain/N42/metrics"
	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// GlobalStartIndex is the first index the lookup table accepts.
// Lower indices are reserved for the felt values 0/1/2 used directly
// as sentinel addresses/markers by the parser.
const GlobalStartIndex uint64 = 128

// Store is the persistence contract a Lookup is built on. A single
// Commit call durably applies a batch of new table entries together
// with the phase-change watermarks, atomically.
type Store interface {
	// TableSize returns the number of entries already committed to
	// lookup_table.
	TableSize() (uint64, error)

	// GetEntry reads a committed lookup_table entry. ok is false if
	// absent.
	GetEntry(index uint64) (value *big.Int, ok bool, err error)

	// GetPhase reads a phase_change watermark ("stateful" or
	// "crest"). ok is false if never written.
	GetPhase(key string) (value uint64, ok bool, err error)

	// Commit atomically appends entries (in index order) to
	// lookup_table and writes the given phase_change watermarks.
	Commit(entries []Entry, phases map[string]uint64) error
}

// Entry is one (index, value) pair destined for the committed table.
type Entry struct {
	Index uint64
	Value *big.Int
}

// Lookup is the stateful-compression collaborator consulted and
// updated by the state-diff parser.
type Lookup struct {
	mu          sync.Mutex
	store       Store
	scratchpad  map[uint64]*big.Int
	curBlockNo  uint64
	blockNoSet  bool
}

// New constructs a Lookup backed by store.
func New(store Store) *Lookup {
	return &Lookup{store: store, scratchpad: map[uint64]*big.Int{}}
}

// SetBlockNo records the Ethereum block number of the blob currently
// being parsed. Must be called before Record, Expand, or IsOn.
func (l *Lookup) SetBlockNo(blockNo uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.curBlockNo = blockNo
	l.blockNoSet = true
}

func (l *Lookup) currentBlockNo() (uint64, error) {
	if !l.blockNoSet {
		return 0, scrapeerrors.ErrBlockNoNotSet
	}
	return l.curBlockNo, nil
}

// Record stages (index, value) in the current blob's scratchpad. It
// is an error to record an index below GlobalStartIndex or to record
// the same index twice within one blob.
func (l *Lookup) Record(index uint64, value *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < GlobalStartIndex {
		return scrapeerrors.Wrapf(scrapeerrors.ErrIndexTooSmall, "%d", index)
	}
	if _, ok := l.scratchpad[index]; ok {
		return scrapeerrors.Wrapf(scrapeerrors.ErrIndexRepeated, "%d", index)
	}
	l.scratchpad[index] = value
	return nil
}

// Get resolves index against the committed table (never the
// scratchpad of an in-flight blob).
func (l *Lookup) Get(index uint64) (*big.Int, error) {
	if index < GlobalStartIndex {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrIndexTooSmall, "%d", index)
	}
	v, ok, err := l.store.GetEntry(index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrIndexNotFound, "%d", index)
	}
	return v, nil
}

// IsOn reports whether stateful compression is active for the
// current block: the table must have a committed "stateful" start
// block at or before the current block, and the table must be
// nonempty.
func (l *Lookup) IsOn() (bool, error) {
	blockNo, err := l.currentBlockNo()
	if err != nil {
		return false, err
	}
	statefulStart, ok, err := l.store.GetPhase("stateful")
	if err != nil {
		return false, err
	}
	if !ok || blockNo < statefulStart {
		return false, nil
	}
	size, err := l.store.TableSize()
	if err != nil {
		return false, err
	}
	return size > 0, nil
}

// Expand atomically commits the current blob's scratchpad onto the
// table. If the current block is a replay of an already-ingested
// block (blockNo <= crest), the scratchpad is discarded and Expand is
// a committed no-op. Otherwise every staged entry must extend the
// table contiguously.
func (l *Lookup) Expand() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	blockNo, err := l.currentBlockNo()
	if err != nil {
		return err
	}

	crest, crestSet, err := l.store.GetPhase("crest")
	if err != nil {
		return err
	}
	if crestSet && blockNo <= crest {
		l.scratchpad = map[uint64]*big.Int{}
		return nil
	}

	if len(l.scratchpad) == 0 {
		phases := map[string]uint64{"crest": blockNo}
		if _, statefulSet, err := l.store.GetPhase("stateful"); err != nil {
			return err
		} else if !statefulSet {
			phases["stateful"] = blockNo
		}
		return l.store.Commit(nil, phases)
	}

	indices := make([]uint64, 0, len(l.scratchpad))
	for idx := range l.scratchpad {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	size, err := l.store.TableSize()
	if err != nil {
		return err
	}
	expected := GlobalStartIndex + size
	entries := make([]Entry, 0, len(indices))
	for _, idx := range indices {
		if idx != expected {
			return scrapeerrors.Wrapf(scrapeerrors.ErrTableNotContiguous, "expected %d, got %d", expected, idx)
		}
		entries = append(entries, Entry{Index: idx, Value: l.scratchpad[idx]})
		expected++
	}

	phases := map[string]uint64{"crest": blockNo}
	if _, statefulSet, err := l.store.GetPhase("stateful"); err != nil {
		return err
	} else if !statefulSet {
		phases["stateful"] = blockNo
	}

	if err := l.store.Commit(entries, phases); err != nil {
		return err
	}
	metrics.LookupExpansions.Inc()
	l.scratchpad = map[uint64]*big.Int{}
	return nil
}
