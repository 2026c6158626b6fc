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

// Package statediff holds the parsed-output data model for a Starknet
// state diff, plus its optional JSON projection.
package statediff

import "math/big"

// StorageUpdate is a single (key, value) storage write.
type StorageUpdate struct {
	Key   *big.Int
	Value *big.Int
}

// ContractUpdate is one contract's nonce/class-hash/storage changes.
type ContractUpdate struct {
	Address        *big.Int
	Nonce          uint64
	NewClassHash   *big.Int // nil unless the packed word's class flag was set
	StorageUpdates []StorageUpdate
}

// ClassDeclaration associates a class hash with its compiled class
// hash.
type ClassDeclaration struct {
	ClassHash         *big.Int
	CompiledClassHash *big.Int
}

// BlockRange records the span of Starknet block sequence numbers
// observed on the sentinel seq-no contract (address 1) while parsing.
type BlockRange struct {
	MinSeqNo uint64
	MaxSeqNo uint64
	Seen     bool
}

// StateDiff is the fully parsed output of one blob (or the
// concatenation of a transaction's blobs).
type StateDiff struct {
	ContractUpdates   []ContractUpdate
	ClassDeclarations []ClassDeclaration
	Range             BlockRange
	TailSize          int
}
