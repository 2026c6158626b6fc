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

// Package packing unpacks the per-contract "packed word" field
// element carrying a class-update flag, a nonce, and a storage-
// update count. Two format versions are supported, v0.13.1 (a single
// legacy layout) and v0.13.3 (two sub-layouts selected by a "short
// flag" bit).
package packing

import (
	"math/big"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// PackConst bundles the bitmask/shift fields describing one packed-
// word layout. A single concrete type serves both format versions;
// the constructor for a given version zeroes the fields it does not
// use, and Unpack dispatches on which fields are set rather than on a
// type hierarchy.
type PackConst struct {
	version string

	// Legacy (v0.13.1) layout.
	topMask         *big.Int
	classFlagMask   *big.Int
	nonceMask       *big.Int
	nonceShift      uint
	updateCountMask *big.Int

	// v0.13.3 adds a short-flag bit selecting between a long and a
	// short sub-layout.
	hasShortVariant    bool
	shortFlagMask      *big.Int
	shortTopMask       *big.Int
	shortNonceMask     *big.Int
	shortNonceShift    uint
	shortUpdateCntMask *big.Int
	longTopMask        *big.Int
	longNonceMask      *big.Int
	longNonceShift     uint
	longUpdateCntMask  *big.Int
	longUpdateCntShift uint
	shortUpdateCntShift uint
}

func lsh(bits uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), bits)
}

func maskRange(lo, hi uint) *big.Int {
	// bits [lo, hi)
	top := lsh(hi - lo)
	top.Sub(top, big.NewInt(1))
	return top.Lsh(top, lo)
}

// NewPackConstV0131 builds the legacy single-layout pack constants:
// bit 128 is the class flag, bits [64,128) are the nonce, bits [0,64)
// are the update count, and bits >= 129 must be zero.
func NewPackConstV0131() *PackConst {
	return &PackConst{
		version:         "v0.13.1",
		topMask:         maskRange(129, 129+127),
		classFlagMask:   lsh(128),
		nonceMask:       maskRange(64, 128),
		nonceShift:      64,
		updateCountMask: maskRange(0, 64),
	}
}

// NewPackConstV0133 builds the two-sub-layout v0.13.3 pack constants.
// Bit 1 is the short-flag; bit 0 is the class flag in both sub-
// layouts, per the observed-bit override in SPEC_FULL.md §4.3 (the
// specification text names bit 2, but real blobs use bit 0).
func NewPackConstV0133() *PackConst {
	return &PackConst{
		version:            "v0.13.3",
		classFlagMask:      lsh(0),
		hasShortVariant:    true,
		shortFlagMask:      lsh(1),
		longTopMask:        maskRange(130, 130+122),
		longUpdateCntMask:  maskRange(2, 66),
		longUpdateCntShift: 2,
		longNonceMask:      maskRange(66, 130),
		longNonceShift:     66,
		shortTopMask:       maskRange(74, 74+178),
		shortUpdateCntMask: maskRange(2, 10),
		shortUpdateCntShift: 2,
		shortNonceMask:     maskRange(10, 74),
		shortNonceShift:    10,
	}
}

// Unpacked is the decoded content of one packed contract-update word.
type Unpacked struct {
	ClassFlag   bool
	Nonce       uint64
	UpdateCount uint64
}

// Unpack decodes packed according to pc's layout.
func (pc *PackConst) Unpack(packed *big.Int) (Unpacked, error) {
	if pc.hasShortVariant {
		return pc.unpackV0133(packed)
	}
	return pc.unpackV0131(packed)
}

func (pc *PackConst) unpackV0131(packed *big.Int) (Unpacked, error) {
	if new(big.Int).And(pc.topMask, packed).Sign() != 0 {
		return Unpacked{}, scrapeerrors.Wrap(scrapeerrors.ErrExtraHighBits, pc.version)
	}
	classFlag := new(big.Int).And(pc.classFlagMask, packed).Sign() != 0
	nonce := new(big.Int).Rsh(new(big.Int).And(pc.nonceMask, packed), pc.nonceShift)
	updateCount := new(big.Int).And(pc.updateCountMask, packed)
	return Unpacked{
		ClassFlag:   classFlag,
		Nonce:       nonce.Uint64(),
		UpdateCount: updateCount.Uint64(),
	}, nil
}

func (pc *PackConst) unpackV0133(packed *big.Int) (Unpacked, error) {
	short := new(big.Int).And(pc.shortFlagMask, packed).Sign() != 0
	classFlag := new(big.Int).And(pc.classFlagMask, packed).Sign() != 0

	var topMask, nonceMask, updateCntMask *big.Int
	var nonceShift, updateCntShift uint
	if short {
		topMask, nonceMask, updateCntMask = pc.shortTopMask, pc.shortNonceMask, pc.shortUpdateCntMask
		nonceShift, updateCntShift = pc.shortNonceShift, pc.shortUpdateCntShift
	} else {
		topMask, nonceMask, updateCntMask = pc.longTopMask, pc.longNonceMask, pc.longUpdateCntMask
		nonceShift, updateCntShift = pc.longNonceShift, pc.longUpdateCntShift
	}

	if new(big.Int).And(topMask, packed).Sign() != 0 {
		return Unpacked{}, scrapeerrors.Wrap(scrapeerrors.ErrExtraHighBits, pc.version)
	}
	nonce := new(big.Int).Rsh(new(big.Int).And(nonceMask, packed), nonceShift)
	updateCount := new(big.Int).Rsh(new(big.Int).And(updateCntMask, packed), updateCntShift)
	return Unpacked{
		ClassFlag:   classFlag,
		Nonce:       nonce.Uint64(),
		UpdateCount: updateCount.Uint64(),
	}, nil
}
