// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package dumpfile

import (
	"math/big"
	"testing"
)

func TestWriteReadFeltsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	felts := []*big.Int{big.NewInt(0), big.NewInt(0x2a), big.NewInt(12345)}
	if err := s.WriteFelts(100, 0, ExtSeq, felts); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadFelts(100, 0, ExtSeq)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(felts) {
		t.Fatalf("got %d felts, want %d", len(got), len(felts))
	}
	for i := range felts {
		if got[i].Cmp(felts[i]) != 0 {
			t.Fatalf("felt %d: got %v, want %v", i, got[i], felts[i])
		}
	}
}

func TestListReplayUnitsOrder(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range []ReplayUnit{{100, 0}, {100, 1}, {50, 0}, {200, 0}} {
		if err := s.WriteFelts(u.EthBlock, u.Repeat, ExtSeq, nil); err != nil {
			t.Fatal(err)
		}
	}
	units, err := s.ListReplayUnits(ExtSeq)
	if err != nil {
		t.Fatal(err)
	}
	want := []ReplayUnit{{50, 0}, {100, 0}, {100, 1}, {200, 0}}
	if len(units) != len(want) {
		t.Fatalf("got %d units, want %d: %+v", len(units), len(want), units)
	}
	for i, u := range units {
		if u != want[i] {
			t.Fatalf("unit %d: got %+v, want %+v", i, u, want[i])
		}
	}
}
