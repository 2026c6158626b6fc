// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package blobutil

import (
	"math/big"
	"strings"
	"testing"

	"github.com/n42blockchain/N42/feltutil"
	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

func TestParseBlobHexRoundTrip(t *testing.T) {
	data := "0x" + strings.Repeat("00", 32*feltutil.FieldElementsPerBlob-1) + "01"
	felts, err := ParseBlobHex(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(felts) != feltutil.FieldElementsPerBlob {
		t.Fatalf("got %d felts, want %d", len(felts), feltutil.FieldElementsPerBlob)
	}
	if felts[len(felts)-1].Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("last felt = %v, want 1", felts[len(felts)-1])
	}
	for _, f := range felts[:len(felts)-1] {
		if f.Sign() != 0 {
			t.Fatalf("expected zero felt, got %v", f)
		}
	}
}

func TestParseBlobHexWrongLengthIsError(t *testing.T) {
	if _, err := ParseBlobHex("0xabcd"); !scrapeerrors.Is(err, scrapeerrors.ErrBlobWrongLength) {
		t.Fatalf("expected ErrBlobWrongLength, got %v", err)
	}
}

func TestFeltHexRoundTrip(t *testing.T) {
	v := big.NewInt(0x2a)
	s := FeltHex(v)
	if s != "0x2a" {
		t.Fatalf("got %s", s)
	}
	got, err := ParseFeltHex(s)
	if err != nil || got.Cmp(v) != 0 {
		t.Fatalf("round trip failed: %v, %v", got, err)
	}
}
