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
	"context"
	"encoding/binary"
	"math/big"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/ledgerwatch/erigon-lib/kv"
	"github.com/ledgerwatch/erigon-lib/kv/mdbx"
	"github.com/ledgerwatch/log/v3"
	"github.com/n42blockchain/N42/lookup"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// compile-time assertion that MDBXStore satisfies lookup.Store.
var _ lookup.Store = (*MDBXStore)(nil)

// entryCacheSize bounds the in-memory read cache sitting in front of
// LookupTable. The lookup table is append-only and entries are never
// overwritten once committed, so a small LRU of recently-resolved
// indices avoids round-tripping to MDBX for the "crest" region a
// parser keeps revisiting within one blob.
const entryCacheSize = 4096

// MDBXStore is the concrete lookup.Store backing the lookup table on
// disk. It opens its own single-database MDBX environment under a
// data directory handed to it by the caller.
type MDBXStore struct {
	db         kv.RwDB
	entryCache *lru.Cache[uint64, *big.Int]
}

// OpenMDBXStore opens (creating if absent) an MDBX environment at
// dataDir itself and returns a Store wired to the PhaseChange and
// LookupTable buckets.
func OpenMDBXStore(dataDir string) (*MDBXStore, error) {
	db, err := mdbx.NewMDBX(log.New()).
		Path(dataDir).
		WithTableCfg(func(kv.TableCfg) kv.TableCfg { return Tables() }).
		Open()
	if err != nil {
		return nil, scrapeerrors.Wrapf(err, "open lookup mdbx at %s", dataDir)
	}
	cache, err := lru.New[uint64, *big.Int](entryCacheSize)
	if err != nil {
		db.Close()
		return nil, scrapeerrors.Wrap(err, "allocate lookup entry cache")
	}
	return &MDBXStore{db: db, entryCache: cache}, nil
}

// Close releases the underlying MDBX environment.
func (s *MDBXStore) Close() {
	s.db.Close()
}

func encodeIndex(index uint64) []byte {
	b := LookupKeyBuffer.Get()
	binary.BigEndian.PutUint64(b, index)
	return b
}

func encodePhase(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// TableSize reports the number of entries committed to LookupTable.
func (s *MDBXStore) TableSize() (uint64, error) {
	var n uint64
	err := s.db.View(context.Background(), func(tx kv.Tx) error {
		c, err := tx.Cursor(LookupTableTable)
		if err != nil {
			return err
		}
		defer c.Close()
		count, err := c.Count()
		if err != nil {
			return err
		}
		n = count
		return nil
	})
	return n, err
}

// GetEntry reads a single committed LookupTable entry, consulting the
// in-memory read cache before MDBX.
func (s *MDBXStore) GetEntry(index uint64) (*big.Int, bool, error) {
	if v, ok := s.entryCache.Get(index); ok {
		return v, true, nil
	}

	var value *big.Int
	var ok bool
	key := encodeIndex(index)
	defer LookupKeyBuffer.Put(key)

	err := s.db.View(context.Background(), func(tx kv.Tx) error {
		v, err := tx.GetOne(LookupTableTable, key)
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		ok = true
		value = new(big.Int).SetBytes(v)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if ok {
		s.entryCache.Add(index, value)
	}
	return value, ok, nil
}

// GetPhase reads a PhaseChange watermark.
func (s *MDBXStore) GetPhase(key string) (uint64, bool, error) {
	var value uint64
	var ok bool

	err := s.db.View(context.Background(), func(tx kv.Tx) error {
		v, err := tx.GetOne(PhaseChangeTable, []byte(key))
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		if len(v) != 8 {
			return scrapeerrors.Wrapf(scrapeerrors.ErrTableNotContiguous, "phase %q has malformed width %d", key, len(v))
		}
		ok = true
		value = binary.BigEndian.Uint64(v)
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return value, ok, nil
}

// Commit atomically appends entries to LookupTable and writes phases
// to PhaseChange in a single MDBX read-write transaction.
func (s *MDBXStore) Commit(entries []lookup.Entry, phases map[string]uint64) error {
	return s.db.Update(context.Background(), func(tx kv.RwTx) error {
		bw := NewBatchWriter(tx)
		for _, e := range entries {
			key := encodeIndex(e.Index)
			val := e.Value.Bytes()
			if err := bw.Put(LookupTableTable, key, val); err != nil {
				LookupKeyBuffer.Put(key)
				return err
			}
			LookupKeyBuffer.Put(key)
			s.entryCache.Add(e.Index, e.Value)
		}
		for k, v := range phases {
			if err := bw.Put(PhaseChangeTable, []byte(k), encodePhase(v)); err != nil {
				return err
			}
		}
		return nil
	})
}
