// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package decompress

import (
	"math/big"
	"testing"

	"github.com/n42blockchain/N42/feltutil"
	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

func packHeader(version, total, b0, b1, b2, b3, b4, b5, nRepeating int) *big.Int {
	digits := []int{version, total, b0, b1, b2, b3, b4, b5, nRepeating}
	packed := big.NewInt(0)
	for i := len(digits) - 1; i >= 0; i-- {
		packed.Lsh(packed, 20)
		packed.Or(packed, big.NewInt(int64(digits[i])))
	}
	return packed
}

func TestDecompressMinimalVerbatimBucket(t *testing.T) {
	header := packHeader(0, 1, 1, 0, 0, 0, 0, 0, 0)
	value := big.NewInt(42)
	bucketIdxStream := big.NewInt(0) // single digit "0" in base 7, bucket 0
	tailZero := big.NewInt(0)

	seq := []*big.Int{header, value, bucketIdxStream, tailZero}
	res, err := Decompress(feltutil.NewSliceIterator(seq))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sequence) != 1 || res.Sequence[0].Cmp(value) != 0 {
		t.Fatalf("expected [%s], got %v", value, res.Sequence)
	}
	if res.TailZeroCount != 1 {
		t.Fatalf("expected 1 trailing zero, got %d", res.TailZeroCount)
	}
}

func TestDecompressEmptyIsError(t *testing.T) {
	_, err := Decompress(feltutil.NewSliceIterator(nil))
	if !scrapeerrors.Is(err, scrapeerrors.ErrNothingToDecompress) {
		t.Fatalf("expected ErrNothingToDecompress, got %v", err)
	}
}

func TestDecompressNonZeroVersionIsError(t *testing.T) {
	header := packHeader(1, 0, 0, 0, 0, 0, 0, 0, 0)
	_, err := Decompress(feltutil.NewSliceIterator([]*big.Int{header}))
	if !scrapeerrors.Is(err, scrapeerrors.ErrInvalidCompressionVersion) {
		t.Fatalf("expected ErrInvalidCompressionVersion, got %v", err)
	}
}

func TestDecompressExtraNonZeroTailIsError(t *testing.T) {
	header := packHeader(0, 1, 1, 0, 0, 0, 0, 0, 0)
	value := big.NewInt(1)
	bucketIdxStream := big.NewInt(0)
	badTail := big.NewInt(9)

	seq := []*big.Int{header, value, bucketIdxStream, badTail}
	_, err := Decompress(feltutil.NewSliceIterator(seq))
	if !scrapeerrors.Is(err, scrapeerrors.ErrExtraTail) {
		t.Fatalf("expected ErrExtraTail, got %v", err)
	}
}

// TestDecompressRepeatingValuesNonPowerOfTwoBound exercises
// n_repeating_values > 0 against a unique-value pool whose size (3) is
// not a power of two. The two pointers (indices 0 and 2) are packed
// into one felt as base-3 digits (0 + 2*3 = 6); decoding that felt
// with a fixed 2-bit mask instead of real base-3 div/mod would recover
// the wrong digits ([2, 1] instead of [0, 2]), so this pins the
// correct mixed-radix decode.
func TestDecompressRepeatingValuesNonPowerOfTwoBound(t *testing.T) {
	header := packHeader(0, 5, 3, 0, 0, 0, 0, 0, 2)
	v0, v1, v2 := big.NewInt(10), big.NewInt(20), big.NewInt(30)
	pointerFelt := big.NewInt(6) // base-3 digits [0, 2]: idx 0 then idx 2
	bucketIdxStream := big.NewInt(0)
	tailZero := big.NewInt(0)

	seq := []*big.Int{header, v0, v1, v2, pointerFelt, bucketIdxStream, tailZero}
	res, err := Decompress(feltutil.NewSliceIterator(seq))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []*big.Int{v0, v1, v2, v0, v2}
	if len(res.Sequence) != len(want) {
		t.Fatalf("expected %d elements, got %d: %v", len(want), len(res.Sequence), res.Sequence)
	}
	for i, w := range want {
		if res.Sequence[i].Cmp(w) != 0 {
			t.Fatalf("element %d: expected %s, got %s", i, w, res.Sequence[i])
		}
	}
}

func TestNElemsPerFeltBoundaries(t *testing.T) {
	cases := []struct {
		bound int64
		want  int
	}{
		{2, 251},
		{7, 83},
		{1<<15 - 1, 16},
	}
	for _, c := range cases {
		got := nElmsPerFelt(big.NewInt(c.bound))
		if got != c.want {
			t.Errorf("nElmsPerFelt(%d) = %d, want %d", c.bound, got, c.want)
		}
	}
}
