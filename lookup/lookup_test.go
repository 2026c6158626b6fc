// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package lookup

import (
	"math/big"
	"testing"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// memStore is a minimal in-memory Store used only by tests.
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

func (m *memStore) Commit(entries []Entry, phases map[string]uint64) error {
	for _, e := range entries {
		m.table[e.Index] = e.Value
	}
	for k, v := range phases {
		m.phases[k] = v
	}
	return nil
}

func TestExpandContiguousAppend(t *testing.T) {
	store := newMemStore()
	l := New(store)
	l.SetBlockNo(100)

	if err := l.Record(128, big.NewInt(11)); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(129, big.NewInt(22)); err != nil {
		t.Fatal(err)
	}
	if err := l.Expand(); err != nil {
		t.Fatal(err)
	}

	v, err := l.Get(128)
	if err != nil || v.Cmp(big.NewInt(11)) != 0 {
		t.Fatalf("Get(128) = %v, %v", v, err)
	}
	v, err = l.Get(129)
	if err != nil || v.Cmp(big.NewInt(22)) != 0 {
		t.Fatalf("Get(129) = %v, %v", v, err)
	}
	if store.phases["crest"] != 100 || store.phases["stateful"] != 100 {
		t.Fatalf("expected crest=stateful=100, got %+v", store.phases)
	}
}

func TestExpandNonContiguousIsError(t *testing.T) {
	store := newMemStore()
	l := New(store)
	l.SetBlockNo(1)
	if err := l.Record(129, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := l.Expand(); !scrapeerrors.Is(err, scrapeerrors.ErrTableNotContiguous) {
		t.Fatalf("expected ErrTableNotContiguous, got %v", err)
	}
}

func TestExpandReplayIsNoOp(t *testing.T) {
	store := newMemStore()
	l := New(store)
	l.SetBlockNo(10)
	if err := l.Record(128, big.NewInt(5)); err != nil {
		t.Fatal(err)
	}
	if err := l.Expand(); err != nil {
		t.Fatal(err)
	}

	l2 := New(store)
	l2.SetBlockNo(10) // replay of the same (already-committed) block
	if err := l2.Record(128, big.NewInt(999)); err != nil {
		t.Fatal(err)
	}
	if err := l2.Expand(); err != nil {
		t.Fatal(err)
	}
	v, _ := l2.Get(128)
	if v.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("replay must not overwrite committed value, got %v", v)
	}
}

func TestRecordBelowStartIndexIsError(t *testing.T) {
	l := New(newMemStore())
	l.SetBlockNo(1)
	if err := l.Record(1, big.NewInt(1)); !scrapeerrors.Is(err, scrapeerrors.ErrIndexTooSmall) {
		t.Fatalf("expected ErrIndexTooSmall, got %v", err)
	}
}

func TestRecordDuplicateIndexIsError(t *testing.T) {
	l := New(newMemStore())
	l.SetBlockNo(1)
	if err := l.Record(128, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(128, big.NewInt(2)); !scrapeerrors.Is(err, scrapeerrors.ErrIndexRepeated) {
		t.Fatalf("expected ErrIndexRepeated, got %v", err)
	}
}

func TestIsOnBeforeAnyExpand(t *testing.T) {
	l := New(newMemStore())
	l.SetBlockNo(1)
	on, err := l.IsOn()
	if err != nil {
		t.Fatal(err)
	}
	if on {
		t.Fatal("expected IsOn()==false before any commit")
	}
}

func TestIsOnAfterExpand(t *testing.T) {
	store := newMemStore()
	l := New(store)
	l.SetBlockNo(1)
	if err := l.Record(128, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := l.Expand(); err != nil {
		t.Fatal(err)
	}
	l.SetBlockNo(2)
	on, err := l.IsOn()
	if err != nil {
		t.Fatal(err)
	}
	if !on {
		t.Fatal("expected IsOn()==true after a committed expand")
	}
}

func TestGetUncommittedIndexIsError(t *testing.T) {
	l := New(newMemStore())
	if _, err := l.Get(128); !scrapeerrors.Is(err, scrapeerrors.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}
