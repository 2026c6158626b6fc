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

// Package decompress implements Starknet's stateless "version 0"
// bucketed decompression scheme, converting a compressed
// field-element sequence back into the flat sequence the state-diff
// parser expects.
package decompress

import (
	"math/big"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"

	"github.com/n42blockchain/N42/feltutil"
)

const (
	headerElmNBits  = 20
	maxNBitsPerFelt = 251
	totalNBuckets   = 7
)

// bucketBounds are the element-value upper bounds for buckets 0..5
// (bucket 0, the "largest" bucket, holds values below 2^252 and is
// stored verbatim).
func bucketBounds() []*big.Int {
	bounds := make([]*big.Int, 6)
	shifts := []uint{252, 125, 83, 62, 31, 15}
	for i, s := range shifts {
		bounds[i] = new(big.Int).Lsh(big.NewInt(1), s)
	}
	return bounds
}

// packCounts holds the fixed number of values packed per field
// element for buckets 1..5.
var packCounts = []int{2, 3, 4, 8, 16}

// Result is the output of Decompress: the flat, reconstructed
// field-element sequence plus the count of trailing zero elements
// observed after it in the input.
type Result struct {
	Sequence      []*big.Int
	TailZeroCount int
}

// Decompress consumes it and returns the reconstructed sequence.
func Decompress(it feltutil.Iterator) (*Result, error) {
	header, ok := it.Next()
	if !ok {
		return nil, scrapeerrors.ErrNothingToDecompress
	}

	sizes, err := unpackHeader(header)
	if err != nil {
		return nil, err
	}

	unique, err := unpackUniqueValues(it, sizes)
	if err != nil {
		return nil, err
	}

	nRepeating := sizes[7]
	if sizes[0] != len(unique)+nRepeating {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrCountMismatch,
			"total=%d unique=%d repeating=%d", sizes[0], len(unique), nRepeating)
	}

	all, err := unpackRepeatingValues(it, unique, nRepeating)
	if err != nil {
		return nil, err
	}

	bucketIdx, err := unpackBucketIndexPerElm(it, sizes[0])
	if err != nil {
		return nil, err
	}

	seq, err := reconstructData(all, bucketIdx, sizes)
	if err != nil {
		return nil, err
	}

	tail, err := countZeroTail(it)
	if err != nil {
		return nil, err
	}

	return &Result{Sequence: seq, TailZeroCount: tail}, nil
}

// unpackHeader splits the header felt into 9 base-2^20 digits:
// version, total_len, bucket0_len..bucket5_len, n_repeating.
func unpackHeader(header *big.Int) ([]int, error) {
	digits, remainder, err := unpackFelt(header, headerElmNBits, 9)
	if err != nil {
		return nil, err
	}
	if remainder.Sign() != 0 {
		return nil, scrapeerrors.Wrap(scrapeerrors.ErrHighBitsSet, "header")
	}
	if digits[0] != 0 {
		return nil, scrapeerrors.ErrInvalidCompressionVersion
	}
	return digits[1:], nil
}

// unpackFelt extracts n little-endian base-2^nBits digits from packed,
// returning the digits and whatever remains after removing them.
func unpackFelt(packed *big.Int, nBits uint, n int) ([]int, *big.Int, error) {
	rem := new(big.Int).Set(packed)
	digits := make([]int, n)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), nBits), big.NewInt(1))
	for i := 0; i < n; i++ {
		d := new(big.Int).And(rem, mask)
		if !d.IsInt64() {
			return nil, nil, scrapeerrors.ErrValueExceedsUsize
		}
		digits[i] = int(d.Int64())
		rem.Rsh(rem, nBits)
	}
	return digits, rem, nil
}

// unpackUniqueValues reads bucket 0 (verbatim) then buckets 1..5
// (packed), returning the combined unique-value pool.
func unpackUniqueValues(it feltutil.Iterator, sizes []int) ([]*big.Int, error) {
	var unique []*big.Int

	for i := 0; i < sizes[1]; i++ {
		v, ok := it.Next()
		if !ok {
			return nil, scrapeerrors.Wrap(scrapeerrors.ErrIteratorExhausted, "bucket 0")
		}
		unique = append(unique, v)
	}

	for b := 0; b < 5; b++ {
		nElms := sizes[b+2]
		width := bucketWidth(b + 1)
		vals, err := unpackFelts(it, nElms, packCounts[b], width)
		if err != nil {
			return nil, scrapeerrors.Wrapf(err, "bucket %d", b+1)
		}
		unique = append(unique, vals...)
	}

	return unique, nil
}

func bucketWidth(bucket int) uint {
	widths := []uint{0, 125, 83, 62, 31, 15}
	return widths[bucket]
}

// unpackFelts reads ceil(nElms/nElmsPerFelt) field elements, each
// packing up to nElmsPerFelt base-2^width digits, plus a possibly-
// short final element.
func unpackFelts(it feltutil.Iterator, nElms int, nElmsPerFelt int, width uint) ([]*big.Int, error) {
	out := make([]*big.Int, 0, nElms)
	remaining := nElms
	for remaining > 0 {
		count := nElmsPerFelt
		if remaining < count {
			count = remaining
		}
		felt, ok := it.Next()
		if !ok {
			return nil, scrapeerrors.ErrIteratorExhausted
		}
		digits, rem, err := unpackFelt(felt, width, count)
		if err != nil {
			return nil, err
		}
		if rem.Sign() != 0 {
			return nil, scrapeerrors.ErrHighBitsSet
		}
		for _, d := range digits {
			out = append(out, big.NewInt(int64(d)))
		}
		remaining -= count
	}
	return out, nil
}

// nElmsPerFelt returns how many elements bounded by elmBound pack
// into one 251-bit field element.
func nElmsPerFelt(elmBound *big.Int) int {
	if elmBound.Cmp(big.NewInt(2)) < 0 {
		return maxNBitsPerFelt
	}
	bits := ceilLog2(elmBound)
	return maxNBitsPerFelt / bits
}

func ceilLog2(v *big.Int) int {
	// bits-1 covers exact powers of two down to one fewer bit; detect
	// the exact-power-of-two case explicitly.
	bitLen := v.BitLen()
	pow := new(big.Int).Lsh(big.NewInt(1), uint(bitLen-1))
	if pow.Cmp(v) == 0 {
		return bitLen - 1
	}
	return bitLen
}

// unpackRepeatingValues reads n pointer felts and appends the
// pointed-to values onto the pool. Pointers are packed in true base
// len(unique) (mixed-radix div/mod), not a power-of-two bit mask: the
// unique-value count is essentially never an exact power of two, so
// bit-masking here would decode a different positional system than
// the one the pointers were actually packed in.
func unpackRepeatingValues(it feltutil.Iterator, unique []*big.Int, n int) ([]*big.Int, error) {
	bound := big.NewInt(int64(len(unique)))
	perFelt := nElmsPerFelt(bound)
	if bound.Sign() == 0 {
		bound = big.NewInt(1)
	}

	ptrs, err := unpackFeltsBase(it, n, perFelt, bound)
	if err != nil {
		return nil, scrapeerrors.Wrap(err, "repeating values")
	}

	all := make([]*big.Int, len(unique), len(unique)+len(ptrs))
	copy(all, unique)
	for _, p := range ptrs {
		idx, ok := feltutil.ParseUsize(p)
		if !ok || int(idx) >= len(all) {
			return nil, scrapeerrors.ErrValueExceedsUsize
		}
		all = append(all, all[idx])
	}
	return all, nil
}

// unpackFeltsBase reads ceil(nElms/nElmsPerFelt) field elements, each
// holding up to nElmsPerFelt little-endian base-bound digits extracted
// by real big.Int div/mod, plus a possibly-short final element.
func unpackFeltsBase(it feltutil.Iterator, nElms int, nElmsPerFelt int, bound *big.Int) ([]*big.Int, error) {
	out := make([]*big.Int, 0, nElms)
	remaining := nElms
	for remaining > 0 {
		count := nElmsPerFelt
		if remaining < count {
			count = remaining
		}
		felt, ok := it.Next()
		if !ok {
			return nil, scrapeerrors.ErrIteratorExhausted
		}
		digits, rem, err := unpackBaseN(felt, bound, count)
		if err != nil {
			return nil, err
		}
		if rem.Sign() != 0 {
			return nil, scrapeerrors.ErrHighBitsSet
		}
		out = append(out, digits...)
		remaining -= count
	}
	return out, nil
}

// unpackBaseN extracts n little-endian base-bound digits from packed
// via big.Int div/mod, returning the digits and whatever remains.
func unpackBaseN(packed *big.Int, bound *big.Int, n int) ([]*big.Int, *big.Int, error) {
	rem := new(big.Int).Set(packed)
	digits := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		m := new(big.Int)
		rem.DivMod(rem, bound, m)
		digits[i] = m
	}
	return digits, rem, nil
}

// unpackBucketIndexPerElm reads ceil(total/83) field elements of
// base-7 digits, 83 per element, one bucket index per output
// position.
func unpackBucketIndexPerElm(it feltutil.Iterator, total int) ([]int, error) {
	const perFelt = 83
	out := make([]int, 0, total)
	remaining := total
	for remaining > 0 {
		count := perFelt
		if remaining < count {
			count = remaining
		}
		felt, ok := it.Next()
		if !ok {
			return nil, scrapeerrors.Wrap(scrapeerrors.ErrIteratorExhausted, "bucket index stream")
		}
		digits, rem, err := unpackBase7(felt, count)
		if err != nil {
			return nil, err
		}
		if rem.Sign() != 0 {
			return nil, scrapeerrors.ErrHighBitsSet
		}
		for _, d := range digits {
			if d < 0 || d >= totalNBuckets {
				return nil, scrapeerrors.ErrBucketIndexOutOfRange
			}
			out = append(out, d)
		}
		remaining -= count
	}
	return out, nil
}

func unpackBase7(packed *big.Int, n int) ([]int, *big.Int, error) {
	rem := new(big.Int).Set(packed)
	seven := big.NewInt(7)
	digits := make([]int, n)
	for i := 0; i < n; i++ {
		m := new(big.Int)
		rem.DivMod(rem, seven, m)
		digits[i] = int(m.Int64())
	}
	return digits, rem, nil
}

// reconstructData walks the bucket-index stream, pulling the next
// unconsumed value out of the appropriate bucket's region of all for
// each output position.
func reconstructData(all []*big.Int, bucketIdx []int, sizes []int) ([]*big.Int, error) {
	offsets := bucketOffsets(sizes)
	out := make([]*big.Int, len(bucketIdx))
	for i, b := range bucketIdx {
		if offsets[b] >= len(all) {
			return nil, scrapeerrors.Wrapf(scrapeerrors.ErrBucketIndexOutOfRange, "position %d bucket %d", i, b)
		}
		out[i] = all[offsets[b]]
		offsets[b]++
	}
	return out, nil
}

// bucketOffsets returns prefix sums over
// (bucket0_len..bucket5_len, n_repeating), i.e. sizes[1..8].
func bucketOffsets(sizes []int) []int {
	offsets := make([]int, totalNBuckets)
	running := 0
	for i := 0; i < totalNBuckets; i++ {
		offsets[i] = running
		running += sizes[i+1]
	}
	return offsets
}

// countZeroTail consumes the rest of it, which must be all zeros.
func countZeroTail(it feltutil.Iterator) (int, error) {
	n := 0
	for {
		v, ok := it.Next()
		if !ok {
			return n, nil
		}
		if v.Sign() != 0 {
			return n, scrapeerrors.ErrExtraTail
		}
		n++
	}
}
