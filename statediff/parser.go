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

package statediff

import (
	"fmt"
	"io"
	"math/big"

	"github.com/n42blockchain/N42/feltutil"
	"github.com/n42blockchain/N42/log"
	"github.com/n42blockchain/N42/lookup"
	"github.com/n42blockchain/N42/packing"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// lookupState is the per-blob stateful-compression FSM state.
type lookupState int

const (
	stateOff lookupState = iota
	stateOne
	stateExpand
	stateOn
)

const (
	seqNoContract   = 1
	aliasContract   = 2
	lookupThreshold = 128
)

// Parser streams a reconstructed field-element sequence into a
// StateDiff, tracking the stateful-compression FSM across contract
// boundaries and mirroring every consumed element to an annotation
// sink.
type Parser struct {
	pc     *packing.PackConst
	lookup *lookup.Lookup
	anno   io.Writer

	state      lookupState
	rangeSoFar BlockRange
}

// NewParser builds a Parser for one blob. anno may be io.Discard.
func NewParser(pc *packing.PackConst, lk *lookup.Lookup, anno io.Writer) *Parser {
	if anno == nil {
		anno = io.Discard
	}
	return &Parser{pc: pc, lookup: lk, anno: anno, state: stateOff}
}

func (p *Parser) note(format string, args ...interface{}) {
	fmt.Fprintf(p.anno, format+"\n", args...)
}

func (p *Parser) next(it feltutil.Iterator, what string) (*big.Int, error) {
	v, ok := it.Next()
	if !ok {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrIteratorExhausted, "reading %s", what)
	}
	p.note("%s = 0x%s", what, v.Text(16))
	return v, nil
}

func (p *Parser) nextUsize(it feltutil.Iterator, what string) (uint64, error) {
	v, err := p.next(it, what)
	if err != nil {
		return 0, err
	}
	n, ok := feltutil.ParseUsize(v)
	if !ok {
		return 0, scrapeerrors.Wrapf(scrapeerrors.ErrValueExceedsUsize, "%s = %s", what, v.String())
	}
	return n, nil
}

// Parse consumes it fully and returns the resulting StateDiff.
func (p *Parser) Parse(it feltutil.Iterator) (*StateDiff, error) {
	sd := &StateDiff{}

	first, ok := it.Next()
	if !ok {
		return nil, scrapeerrors.ErrEmptySequence
	}
	numContracts, ok := feltutil.ParseUsize(first)
	if !ok {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrValueExceedsUsize, "num_contracts = %s", first.String())
	}
	p.note("num_contracts = 0x%s", first.Text(16))

	for i := uint64(0); i < numContracts; i++ {
		cu, err := p.parseContractUpdate(it)
		if err != nil {
			return nil, scrapeerrors.Wrapf(err, "contract %d/%d", i, numContracts)
		}
		if cu != nil {
			sd.ContractUpdates = append(sd.ContractUpdates, *cu)
		}
	}

	numClasses, err := p.nextUsize(it, "num_class_declarations")
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < numClasses; i++ {
		classHash, err := p.next(it, "class_hash")
		if err != nil {
			return nil, err
		}
		compiledHash, err := p.next(it, "compiled_class_hash")
		if err != nil {
			return nil, err
		}
		sd.ClassDeclarations = append(sd.ClassDeclarations, ClassDeclaration{
			ClassHash:         classHash,
			CompiledClassHash: compiledHash,
		})
	}

	tail, err := countZeroTail(it)
	if err != nil {
		return nil, err
	}
	sd.TailSize = tail
	sd.Range = p.rangeSoFar
	return sd, nil
}

func (p *Parser) parseContractUpdate(it feltutil.Iterator) (*ContractUpdate, error) {
	addrFelt, err := p.next(it, "address")
	if err != nil {
		return nil, err
	}
	if addrFelt.Sign() == 0 {
		return nil, scrapeerrors.ErrZeroAddress
	}

	// Resolution happens in the same step as the state transition: the
	// contract whose address triggers One -> On must have its own
	// address resolved through the lookup table, not just the ones
	// that follow once state is already On.
	var resolvedAddr *big.Int

	switch p.state {
	case stateOff:
		if addrFelt.IsUint64() && addrFelt.Uint64() == seqNoContract {
			p.state = stateOne
		}
		resolvedAddr = addrFelt
	case stateOne:
		switch {
		case addrFelt.IsUint64() && addrFelt.Uint64() == aliasContract:
			p.state = stateExpand
			resolvedAddr = addrFelt
		default:
			on, err := p.lookup.IsOn()
			if err != nil {
				return nil, err
			}
			if addrFelt.Cmp(big.NewInt(aliasContract)) > 0 && on {
				addr, err := p.resolveViaLookup(addrFelt)
				if err != nil {
					return nil, err
				}
				p.state = stateOn
				resolvedAddr = addr
			} else {
				p.state = stateOff
				resolvedAddr = addrFelt
			}
		}
	case stateExpand:
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrUnexpectedLookupState, "contract update seen while Expand pending")
	case stateOn:
		addr, err := p.resolveViaLookup(addrFelt)
		if err != nil {
			return nil, err
		}
		resolvedAddr = addr
	}

	packed, err := p.next(it, "packed")
	if err != nil {
		return nil, err
	}
	unpacked, err := p.pc.Unpack(packed)
	if err != nil {
		return nil, err
	}

	cu := &ContractUpdate{Address: resolvedAddr, Nonce: unpacked.Nonce}
	if unpacked.ClassFlag {
		classHash, err := p.next(it, "class_hash")
		if err != nil {
			return nil, err
		}
		cu.NewClassHash = classHash
	}

	for i := uint64(0); i < unpacked.UpdateCount; i++ {
		su, skip, err := p.parseStorageUpdate(it)
		if err != nil {
			return nil, scrapeerrors.Wrapf(err, "storage update %d/%d", i, unpacked.UpdateCount)
		}
		if !skip {
			cu.StorageUpdates = append(cu.StorageUpdates, *su)
		}
	}

	if p.state == stateExpand {
		if err := p.lookup.Expand(); err != nil {
			return nil, err
		}
		p.state = stateOn
		// The alias contract's own storage updates populate the
		// lookup table; it is not itself part of the visible diff.
		return nil, nil
	}

	return cu, nil
}

// resolveViaLookup casts addrFelt to a lookup-table index and resolves
// it, for the two places a compressed address is actually looked up:
// the contract that triggers One -> On, and every contract seen while
// already On.
func (p *Parser) resolveViaLookup(addrFelt *big.Int) (*big.Int, error) {
	idx, ok := feltutil.ParseUsize(addrFelt)
	if !ok {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrValueExceedsUsize, "address index %s", addrFelt.String())
	}
	return p.lookup.Get(idx)
}

// parseStorageUpdate returns (update, skip, err): skip is true when
// the pair carries FSM bookkeeping rather than a visible state-diff
// entry (the One-state seq-no range and the Expand-state counter
// line).
func (p *Parser) parseStorageUpdate(it feltutil.Iterator) (*StorageUpdate, bool, error) {
	key, err := p.next(it, "storage_key")
	if err != nil {
		return nil, false, err
	}
	value, err := p.next(it, "storage_value")
	if err != nil {
		return nil, false, err
	}

	switch p.state {
	case stateOff:
		return &StorageUpdate{Key: key, Value: value}, false, nil

	case stateOne:
		seqNo, ok := feltutil.ParseUsize(key)
		if !ok {
			return nil, false, scrapeerrors.Wrapf(scrapeerrors.ErrValueExceedsUsize, "seq_no %s", key.String())
		}
		if p.rangeSoFar.Seen && seqNo < p.rangeSoFar.MinSeqNo {
			log.Warn("decreasing seq_no", "seq_no", seqNo, "min", p.rangeSoFar.MinSeqNo)
			p.note("warning: decreasing seq_no %d < %d", seqNo, p.rangeSoFar.MinSeqNo)
		}
		if !p.rangeSoFar.Seen {
			p.rangeSoFar.MinSeqNo = seqNo
			p.rangeSoFar.MaxSeqNo = seqNo
			p.rangeSoFar.Seen = true
		} else {
			if seqNo < p.rangeSoFar.MinSeqNo {
				p.rangeSoFar.MinSeqNo = seqNo
			}
			if seqNo > p.rangeSoFar.MaxSeqNo {
				p.rangeSoFar.MaxSeqNo = seqNo
			}
		}
		return nil, true, nil

	case stateExpand:
		if key.Sign() == 0 {
			log.Debug("global allocator counter", "value", "0x"+value.Text(16))
			p.note("debug: global allocator counter = 0x%s", value.Text(16))
			return nil, true, nil
		}
		index, ok := feltutil.ParseUsize(value)
		if !ok {
			return nil, false, scrapeerrors.Wrapf(scrapeerrors.ErrValueExceedsUsize, "lookup index %s", value.String())
		}
		if err := p.lookup.Record(index, key); err != nil {
			return nil, false, err
		}
		return nil, true, nil

	case stateOn:
		if key.Cmp(big.NewInt(lookupThreshold)) >= 0 {
			idx, ok := feltutil.ParseUsize(key)
			if !ok {
				return nil, false, scrapeerrors.Wrapf(scrapeerrors.ErrValueExceedsUsize, "storage key index %s", key.String())
			}
			resolved, err := p.lookup.Get(idx)
			if err != nil {
				return nil, false, err
			}
			key = resolved
		}
		return &StorageUpdate{Key: key, Value: value}, false, nil
	}

	return &StorageUpdate{Key: key, Value: value}, false, nil
}

func countZeroTail(it feltutil.Iterator) (int, error) {
	n := 0
	for {
		v, ok := it.Next()
		if !ok {
			return n, nil
		}
		if v.Sign() != 0 {
			return 0, scrapeerrors.Wrapf(scrapeerrors.ErrExtraTail, "nonzero trailing element 0x%s", v.Text(16))
		}
		n++
	}
}
