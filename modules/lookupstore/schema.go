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

// Package lookupstore is the MDBX-backed implementation of
// lookup.Store, persisting the stateful-compression index-to-felt
// table across process restarts.
//
// # Database Schema Documentation
//
// Two buckets back the whole package:
//
//	PhaseChange  : key(string) -> uint64 big-endian(8)
//	               keys used: "stateful", "crest"
//	LookupTable  : index(8, big-endian uint64) -> felt bytes (big-endian, unpadded)
//
// # Key Encoding Conventions
//
//   - LookupTable keys are 8-byte big-endian uint64s so that MDBX's
//     natural byte-order iteration also orders entries numerically;
//     this package never iterates the table (TableSize uses a cursor
//     count), but keeping the convention matches the rest of the
//     corpus's key layouts (see modules/rawdb in the teacher).
//   - PhaseChange values are fixed 8-byte big-endian uint64s, never
//     variable width, so a short read is always a programmer error.
//
// # Access Patterns
//
// Only the lookup package's Lookup type talks to this store, via the
// lookup.Store interface; no other component opens these buckets.
package lookupstore

import "github.com/ledgerwatch/erigon-lib/kv"

const (
	// PhaseChangeTable holds the "stateful" and "crest" watermarks.
	PhaseChangeTable = "PhaseChange"

	// LookupTableTable holds committed index -> felt entries.
	LookupTableTable = "LookupTable"
)

// Tables returns the kv.TableCfg this package requires; callers open
// their MDBX environment with this merged into their own table set.
func Tables() kv.TableCfg {
	return kv.TableCfg{
		PhaseChangeTable: {},
		LookupTableTable: {},
	}
}
