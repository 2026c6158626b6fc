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

// Package blobutil turns a blob sidecar's raw hex payload into the
// []*big.Int sequence the transformer and decompressor operate on,
// and renders such a sequence back to hex for the .seq/.unc cache
// file formats.
package blobutil

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/n42blockchain/N42/feltutil"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// feltHexWidth is the number of hex characters in one big-endian,
// 32-byte field element.
const feltHexWidth = 64

// ParseBlobHex decodes a blob's "data" hex payload (an optional "0x"
// prefix followed by FieldElementsPerBlob*64 hex characters) into its
// field-element sequence, one element per 32-byte big-endian slice.
func ParseBlobHex(data string) ([]*big.Int, error) {
	data = strings.TrimPrefix(data, "0x")
	wantLen := feltutil.FieldElementsPerBlob * feltHexWidth
	if len(data) != wantLen {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrBlobWrongLength, "got %d hex chars, want %d", len(data), wantLen)
	}

	raw, err := hex.DecodeString(data)
	if err != nil {
		return nil, scrapeerrors.Wrap(err, "blob hex decode")
	}

	out := make([]*big.Int, feltutil.FieldElementsPerBlob)
	for i := range out {
		start := i * (feltHexWidth / 2)
		out[i] = new(big.Int).SetBytes(raw[start : start+feltHexWidth/2])
	}
	return out, nil
}

// FeltHex renders a field element as a "0x"-prefixed hex string, with
// no zero-padding beyond the prefix, the format used by .seq/.unc
// cache files (one such string per line).
func FeltHex(v *big.Int) string {
	return "0x" + v.Text(16)
}

// ParseFeltHex is the inverse of FeltHex.
func ParseFeltHex(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, scrapeerrors.Errorf("malformed felt hex %q", s)
	}
	return v, nil
}
