// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package packing

import (
	"math/big"
	"testing"
)

func TestUnpackV0131(t *testing.T) {
	pc := NewPackConstV0131()
	packed, ok := new(big.Int).SetString("18446744073709551617", 10)
	if !ok {
		t.Fatal("bad literal")
	}
	got, err := pc.Unpack(packed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Unpacked{ClassFlag: false, Nonce: 1, UpdateCount: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUnpackV0131ExtraHighBits(t *testing.T) {
	pc := NewPackConstV0131()
	packed := new(big.Int).Lsh(big.NewInt(1), 200)
	if _, err := pc.Unpack(packed); err == nil {
		t.Fatal("expected error for set top bits")
	}
}

func TestUnpackV0133Short(t *testing.T) {
	pc := NewPackConstV0133()
	got, err := pc.Unpack(big.NewInt(46))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Unpacked{ClassFlag: false, Nonce: 0, UpdateCount: 11}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUnpackV0133ShortWithNonce(t *testing.T) {
	pc := NewPackConstV0133()
	got, err := pc.Unpack(big.NewInt(3074))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Unpacked{ClassFlag: false, Nonce: 3, UpdateCount: 0}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUnpackV0133Long(t *testing.T) {
	pc := NewPackConstV0133()
	got, err := pc.Unpack(big.NewInt(0x5b8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Unpacked{ClassFlag: false, Nonce: 0, UpdateCount: 366}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUnpackV0133ClassFlag(t *testing.T) {
	pc := NewPackConstV0133()
	// bit 0 set (class flag), bit 1 clear (long layout), no other bits.
	got, err := pc.Unpack(big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.ClassFlag {
		t.Fatalf("expected class flag set, got %+v", got)
	}
}
