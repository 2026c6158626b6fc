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

// Package feltutil holds the BLS12-381 scalar-field arithmetic shared
// by the blob transformer, the bucket decompressor and the contract-
// update unpackers. Field elements are represented as *big.Int.
package feltutil

import "math/big"

// FieldElementsPerBlob is the number of field elements carried by a
// single EIP-4844 blob.
const FieldElementsPerBlob = 4096

var (
	// Modulus is the BLS12-381 scalar field prime.
	Modulus, _ = new(big.Int).SetString("52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

	// Generator is a primitive FieldElementsPerBlob-th root of unity in
	// the scalar field, used to build the inverse-FFT evaluation points.
	Generator, _ = new(big.Int).SetString("39033254847818212395286706435128746857159659164139250548781411570340225835782", 10)

	two = big.NewInt(2)

	// pMinusTwo = Modulus - 2, the Fermat's-little-theorem inverse
	// exponent.
	pMinusTwo = new(big.Int).Sub(Modulus, two)
)

// Inverse returns b^-1 mod Modulus via Fermat's little theorem.
func Inverse(b *big.Int) *big.Int {
	return new(big.Int).Exp(b, pMinusTwo, Modulus)
}

// DivMod returns a/b mod Modulus.
func DivMod(a, b *big.Int) *big.Int {
	inv := Inverse(b)
	r := new(big.Int).Mul(a, inv)
	return r.Mod(r, Modulus)
}

// SubMod returns (a-b) mod Modulus using the signed-subtraction-then-
// reduce convention: negative intermediate results are folded back
// into [0, Modulus) rather than relying on a second positive operand.
func SubMod(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, Modulus)
}

// AddMod returns (a+b) mod Modulus.
func AddMod(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, Modulus)
}

// MulMod returns (a*b) mod Modulus.
func MulMod(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, Modulus)
}

// BitReverse16 reverses the low 16 bits of v.
func BitReverse16(v uint16) uint16 {
	var r uint16
	for i := 0; i < 16; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// ParseUsize converts a field element to a uint64 index/count,
// erroring via the ok=false return if it does not fit.
func ParseUsize(v *big.Int) (uint64, bool) {
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// Iterator is a pull-style cursor over a field-element sequence. The
// decompressor and the state-diff parser both consume one of these;
// neither ever peeks, so a single forward Next is all a producer must
// support.
type Iterator interface {
	// Next returns the next field element, or ok=false when exhausted.
	Next() (value *big.Int, ok bool)
}

// SliceIterator adapts a []*big.Int into an Iterator.
type SliceIterator struct {
	s []*big.Int
	i int
}

// NewSliceIterator wraps s for sequential consumption.
func NewSliceIterator(s []*big.Int) *SliceIterator {
	return &SliceIterator{s: s}
}

func (it *SliceIterator) Next() (*big.Int, bool) {
	if it.i >= len(it.s) {
		return nil, false
	}
	v := it.s[it.i]
	it.i++
	return v, true
}

// Remaining reports how many elements remain unread.
func (it *SliceIterator) Remaining() int {
	if it.i >= len(it.s) {
		return 0
	}
	return len(it.s) - it.i
}
