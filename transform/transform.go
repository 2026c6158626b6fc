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

// Package transform reconstructs the canonical field-element sequence
// of a Starknet state-update blob by running an inverse
// number-theoretic transform over the blob's 4096 field elements,
// which are laid out in bit-reversed evaluation order.
package transform

import (
	"math/big"

	"github.com/n42blockchain/N42/feltutil"
)

// Transformer precomputes the evaluation points for the inverse FFT
// once and reuses them across blobs. It holds no mutable state after
// construction and is safe to share across goroutines.
type Transformer struct {
	points []*big.Int
}

// New builds a Transformer for FieldElementsPerBlob-sized blobs.
func New() *Transformer {
	n := feltutil.FieldElementsPerBlob
	points := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		exp := uint64(feltutil.BitReverse16(uint16(i))) / 16
		points[i] = new(big.Int).Exp(feltutil.Generator, new(big.Int).SetUint64(exp), feltutil.Modulus)
	}
	return &Transformer{points: points}
}

// Transform runs the inverse FFT over a full blob, returning the data
// polynomial's FieldElementsPerBlob coefficients. The input must have
// exactly FieldElementsPerBlob elements, in bit-reversed evaluation
// order, which is the caller's responsibility to supply.
func (t *Transformer) Transform(arr []*big.Int) []*big.Int {
	return ifft(arr, t.points)
}

// ifft is the recursive radix-2 Cooley-Tukey-style inverse transform.
// It halves the problem at each level, computing the even/odd
// combination terms before recursing, and interleaves (not
// concatenates) the two halves' results back together.
func ifft(a, x []*big.Int) []*big.Int {
	n := len(a) / 2
	if n == 0 {
		return a
	}

	two := big.NewInt(2)
	r0 := make([]*big.Int, n)
	r1 := make([]*big.Int, n)
	nx := make([]*big.Int, n)

	for i := 0; i < n; i++ {
		ai, bi := a[2*i], a[2*i+1]
		xi := x[2*i]

		r0[i] = feltutil.DivMod(feltutil.AddMod(ai, bi), two)
		diff := feltutil.SubMod(ai, bi)
		r1[i] = feltutil.DivMod(diff, feltutil.MulMod(two, xi))
		nx[i] = feltutil.MulMod(xi, xi)
	}

	e0 := ifft(r0, nx)
	e1 := ifft(r1, nx)

	out := make([]*big.Int, len(a))
	for i := 0; i < n; i++ {
		out[2*i] = e0[i]
		out[2*i+1] = e1[i]
	}
	return out
}
