// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package statediff

import (
	"math/big"
	"testing"

	"github.com/n42blockchain/N42/feltutil"
	"github.com/n42blockchain/N42/lookup"
	"github.com/n42blockchain/N42/packing"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

type memStore struct {
	table  map[uint64]*big.Int
	phases map[string]uint64
}

func newMemStore() *memStore {
	return &memStore{table: map[uint64]*big.Int{}, phases: map[string]uint64{}}
}

func (m *memStore) TableSize() (uint64, error) { return uint64(len(m.table)), nil }

func (m *memStore) GetEntry(index uint64) (*big.Int, bool, error) {
	v, ok := m.table[index]
	return v, ok, nil
}

func (m *memStore) GetPhase(key string) (uint64, bool, error) {
	v, ok := m.phases[key]
	return v, ok, nil
}

func (m *memStore) Commit(entries []lookup.Entry, phases map[string]uint64) error {
	for _, e := range entries {
		m.table[e.Index] = e.Value
	}
	for k, v := range phases {
		m.phases[k] = v
	}
	return nil
}

func feltSeq(vals ...int64) feltutil.Iterator {
	fs := make([]*big.Int, len(vals))
	for i, v := range vals {
		fs[i] = big.NewInt(v)
	}
	return feltutil.NewSliceIterator(fs)
}

// packedV0131 builds a legacy-layout contract-update word with the
// given class flag, nonce, and update count.
func packedV0131(classFlag bool, nonce, updateCount uint64) *big.Int {
	v := new(big.Int).SetUint64(updateCount)
	v.Or(v, new(big.Int).Lsh(new(big.Int).SetUint64(nonce), 64))
	if classFlag {
		v.SetBit(v, 128, 1)
	}
	return v
}

func TestParseOffStatePassthrough(t *testing.T) {
	// num_contracts=1, contract: address=5, packed=(0 updates, nonce 0,
	// no class flag), num_class_declarations=0, no tail.
	it := feltSeq(1, 5, 0, 0)
	lk := lookup.New(newMemStore())
	lk.SetBlockNo(1)
	p := NewParser(packing.NewPackConstV0131(), lk, nil)

	sd, err := p.Parse(it)
	if err != nil {
		t.Fatal(err)
	}
	if len(sd.ContractUpdates) != 1 || sd.ContractUpdates[0].Address.Int64() != 5 {
		t.Fatalf("unexpected contract updates: %+v", sd.ContractUpdates)
	}
}

func TestParseZeroAddressIsError(t *testing.T) {
	it := feltSeq(1, 0, 0)
	lk := lookup.New(newMemStore())
	lk.SetBlockNo(1)
	p := NewParser(packing.NewPackConstV0131(), lk, nil)
	if _, err := p.Parse(it); !scrapeerrors.Is(err, scrapeerrors.ErrZeroAddress) {
		t.Fatalf("expected ErrZeroAddress, got %v", err)
	}
}

func TestParseEmptySequenceIsError(t *testing.T) {
	it := feltSeq()
	lk := lookup.New(newMemStore())
	lk.SetBlockNo(1)
	p := NewParser(packing.NewPackConstV0131(), lk, nil)
	if _, err := p.Parse(it); !scrapeerrors.Is(err, scrapeerrors.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestParseSeqNoRangeAndAliasExpand(t *testing.T) {
	// Contract 1 (seq-no, state One): one storage_update (seq_no=7,
	// value=ignored) -> range collapses to [7,7].
	// Contract 2 (alias, state Expand): one storage_update
	// (key=felt_value=99, value=index=128) -> records index 128 -> 99.
	// Contract 3 (state On after Expand): address is itself an index
	// (128), resolved via the lookup to 99.
	it := feltSeq(
		3,
		1, packedV0131(false, 0, 1).Int64(), 7, 0,
		2, packedV0131(false, 0, 1).Int64(), 99, 128,
		128, packedV0131(false, 0, 0).Int64(),
		0,
	)
	lk := lookup.New(newMemStore())
	lk.SetBlockNo(5)
	p := NewParser(packing.NewPackConstV0131(), lk, nil)

	sd, err := p.Parse(it)
	if err != nil {
		t.Fatal(err)
	}
	if sd.Range.MinSeqNo != 7 || sd.Range.MaxSeqNo != 7 {
		t.Fatalf("unexpected range: %+v", sd.Range)
	}
	v, err := lk.Get(128)
	if err != nil || v.Int64() != 99 {
		t.Fatalf("expected lookup[128]=99, got %v, %v", v, err)
	}
	// alias contract itself is not surfaced in ContractUpdates.
	for _, cu := range sd.ContractUpdates {
		if cu.Address.Int64() == 2 {
			t.Fatalf("alias contract should not appear in ContractUpdates")
		}
	}
}

func TestParseOnStateResolvesStorageKeyIndex(t *testing.T) {
	store := newMemStore()
	lk := lookup.New(store)
	lk.SetBlockNo(1)
	if err := lk.Record(128, big.NewInt(0xAB)); err != nil {
		t.Fatal(err)
	}
	if err := lk.Record(129, big.NewInt(0xCD)); err != nil {
		t.Fatal(err)
	}
	if err := lk.Expand(); err != nil {
		t.Fatal(err)
	}
	lk.SetBlockNo(2)

	// Contract 1 (seq-no, One): seq_no=1.
	// Contract 129 (addr>2, lookup.IsOn()==true -> One to On): its own
	// address is resolved via the lookup (129 -> 0xCD) in the same step
	// that flips state On, and its storage_update key=128 is resolved
	// too (128 -> 0xAB).
	it := feltSeq(
		2,
		1, packedV0131(false, 0, 1).Int64(), 1, 0,
		129, packedV0131(false, 0, 1).Int64(), 128, 55,
		0,
	)
	p := NewParser(packing.NewPackConstV0131(), lk, nil)
	sd, err := p.Parse(it)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, cu := range sd.ContractUpdates {
		if cu.Address.Int64() == 0xCD {
			for _, su := range cu.StorageUpdates {
				if su.Key.Int64() == 0xAB && su.Value.Int64() == 55 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected contract address resolved to 0xCD with storage key 0xAB=55, got %+v", sd.ContractUpdates)
	}
}

func TestParseTailMustBeZero(t *testing.T) {
	it := feltSeq(0, 0, 7)
	lk := lookup.New(newMemStore())
	lk.SetBlockNo(1)
	p := NewParser(packing.NewPackConstV0131(), lk, nil)
	if _, err := p.Parse(it); !scrapeerrors.Is(err, scrapeerrors.ErrExtraTail) {
		t.Fatalf("expected ErrExtraTail, got %v", err)
	}
}
