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

// Package errors defines common error types used throughout the
// starknet-scrape codebase. This package provides a centralized
// location for error definitions to ensure consistency and avoid
// duplication across modules.
package errors

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// =====================
// Blob Shape Errors
// =====================

var (
	// ErrBlobWrongLength is returned when a blob's hex payload is not
	// exactly FieldElementsPerBlob*64 hex characters.
	ErrBlobWrongLength = stderrors.New("blob: unexpected hex length")

	// ErrValueExceedsUsize is returned when a field element used as an
	// index or count does not fit in a machine int/uint64.
	ErrValueExceedsUsize = stderrors.New("blob: value exceeds usize::MAX")
)

// =====================
// Decompression Errors
// =====================

var (
	// ErrNothingToDecompress is returned when the input iterator is
	// empty at the point a header felt is expected.
	ErrNothingToDecompress = stderrors.New("decompress: nothing to decompress")

	// ErrInvalidCompressionVersion is returned when the header's
	// version digit is nonzero.
	ErrInvalidCompressionVersion = stderrors.New("decompress: invalid compression version")

	// ErrHighBitsSet is returned when unpacking a felt into digits
	// leaves a nonzero high remainder.
	ErrHighBitsSet = stderrors.New("decompress: high bits set")

	// ErrIteratorExhausted is returned when the input iterator ends
	// before the header-declared sizes are satisfied.
	ErrIteratorExhausted = stderrors.New("decompress: iterator finished before going through sizes")

	// ErrCountMismatch is returned when the unique+repeating value
	// count disagrees with the header's total.
	ErrCountMismatch = stderrors.New("decompress: unique/repeating count mismatch")

	// ErrBucketIndexOutOfRange is returned when a bucket-index digit
	// is not in 0..7.
	ErrBucketIndexOutOfRange = stderrors.New("decompress: bucket index out of range")

	// ErrExtraTail is returned when nonzero elements remain after the
	// parsed payload.
	ErrExtraTail = stderrors.New("extra tail")
)

// =====================
// Packing Errors
// =====================

var (
	// ErrExtraHighBits is returned when a packed contract-update word
	// has bits set above its format's top mask.
	ErrExtraHighBits = stderrors.New("packing: extra high bits")
)

// =====================
// Parser Errors
// =====================

var (
	// ErrZeroAddress is returned when a contract update's address felt
	// is zero.
	ErrZeroAddress = stderrors.New("parser: zero address")

	// ErrUnexpectedLookupState is returned when a contract address is
	// observed while the lookup FSM is in the Expand state.
	ErrUnexpectedLookupState = stderrors.New("parser: contract address encountered in unexpected lookup state")

	// ErrEmptySequence is returned when Parse receives a zero-length
	// field-element sequence.
	ErrEmptySequence = stderrors.New("parser: empty sequence")
)

// =====================
// Lookup Errors
// =====================

var (
	// ErrIndexTooSmall is returned when an index below GlobalStartIndex
	// is recorded or looked up.
	ErrIndexTooSmall = stderrors.New("lookup: index too small")

	// ErrIndexRepeated is returned when the same index is recorded
	// twice within a single blob's scratchpad.
	ErrIndexRepeated = stderrors.New("lookup: index repeated")

	// ErrIndexNotFound is returned when Get is asked for an index that
	// was never committed.
	ErrIndexNotFound = stderrors.New("lookup: index not found")

	// ErrTableNotContiguous is returned when Expand finds a gap or
	// reordering in the scratchpad relative to the committed table.
	ErrTableNotContiguous = stderrors.New("lookup: table not contiguous")

	// ErrBlockNoNotSet is returned when an operation requiring the
	// current block number runs before SetBlockNo was called.
	ErrBlockNoNotSet = stderrors.New("lookup: current block number not set")
)

// =====================
// Transport Errors
// =====================

var (
	// ErrBlobFetchFailed is returned when fetching a blob sidecar
	// fails: after exhausting retries, or at once on an HTTP status
	// below 200.
	ErrBlobFetchFailed = stderrors.New("transport: can't get blob")

	// ErrLogFetchFailed is returned when eth_getLogs fails; the call
	// is not retried.
	ErrLogFetchFailed = stderrors.New("transport: can't get logs")

	// ErrNoLogsFound is returned when a requested block range yields
	// no LogStateUpdate events.
	ErrNoLogsFound = stderrors.New("transport: no logs found")

	// ErrNotBlobTransaction is returned when the fetched transaction is
	// not an EIP-4844 blob transaction.
	ErrNotBlobTransaction = stderrors.New("transport: transaction has no blob sidecar")

	// ErrNoBlobHashes is returned when a blob transaction carries no
	// versioned hashes.
	ErrNoBlobHashes = stderrors.New("transport: transaction has no blob hashes")
)

// =====================
// Helper Functions
// =====================

// Wrap wraps an error with additional context, in the style of
// eyre::WrapErr context chaining.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.WithMessagef(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Errorf formats according to a format specifier and returns the
// string as a value that satisfies error.
func Errorf(format string, a ...interface{}) error {
	return errors.Errorf(format, a...)
}
