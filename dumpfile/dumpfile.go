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

// Package dumpfile names and writes the optional per-block cache
// files (.blob/.seq/.unc/.anno/.json), guarding writes with an
// advisory lock on the cache directory so a concurrent local-parse
// pass never observes a half-written file.
package dumpfile

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/gofrs/flock"

	"github.com/n42blockchain/N42/blobutil"
	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// Ext enumerates the cache file kinds.
type Ext string

const (
	ExtBlob Ext = ".blob"
	ExtSeq  Ext = ".seq"
	ExtUnc  Ext = ".unc"
	ExtAnno Ext = ".anno"
	ExtJSON Ext = ".json"
)

// Store writes and replays cache files under one directory.
type Store struct {
	dir string
}

// NewStore roots a Store at dir, creating it if absent.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, scrapeerrors.Wrapf(err, "create cache dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

// Name builds the "<eth_block>[-<repeat>].<ext>" stem for one file.
func (s *Store) Name(ethBlock uint64, repeat int, ext Ext) string {
	if repeat == 0 {
		return filepath.Join(s.dir, fmt.Sprintf("%d%s", ethBlock, ext))
	}
	return filepath.Join(s.dir, fmt.Sprintf("%d-%d%s", ethBlock, repeat, ext))
}

// withLock serializes a write against an advisory lock file shared by
// every writer into this cache directory.
func (s *Store) withLock(fn func() error) error {
	lockPath := filepath.Join(s.dir, ".lock")
	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return scrapeerrors.Wrapf(err, "lock %s", lockPath)
	}
	defer fl.Unlock()
	return fn()
}

// WriteRawHex writes the .blob file: the blob's raw hex payload.
func (s *Store) WriteRawHex(ethBlock uint64, repeat int, hexData string) error {
	return s.withLock(func() error {
		return os.WriteFile(s.Name(ethBlock, repeat, ExtBlob), []byte(hexData), 0o644)
	})
}

// WriteFelts writes a .seq or .unc file: one "0x..."-hex felt per
// line.
func (s *Store) WriteFelts(ethBlock uint64, repeat int, ext Ext, felts []*big.Int) error {
	return s.withLock(func() error {
		f, err := os.Create(s.Name(ethBlock, repeat, ext))
		if err != nil {
			return scrapeerrors.Wrapf(err, "create %s", ext)
		}
		defer f.Close()
		w := bufio.NewWriter(f)
		for _, v := range felts {
			if _, err := fmt.Fprintln(w, blobutil.FeltHex(v)); err != nil {
				return err
			}
		}
		return w.Flush()
	})
}

// ReadFelts reads a .seq or .unc file back into its felt sequence.
func (s *Store) ReadFelts(ethBlock uint64, repeat int, ext Ext) ([]*big.Int, error) {
	lockPath := filepath.Join(s.dir, ".lock")
	fl := flock.New(lockPath)
	if err := fl.RLock(); err != nil {
		return nil, scrapeerrors.Wrapf(err, "lock %s", lockPath)
	}
	defer fl.Unlock()

	f, err := os.Open(s.Name(ethBlock, repeat, ext))
	if err != nil {
		return nil, scrapeerrors.Wrapf(err, "open %s", ext)
	}
	defer f.Close()

	var out []*big.Int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := blobutil.ParseFeltHex(line)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteText writes a .anno or .json file verbatim.
func (s *Store) WriteText(ethBlock uint64, repeat int, ext Ext, content string) error {
	return s.withLock(func() error {
		return os.WriteFile(s.Name(ethBlock, repeat, ext), []byte(content), 0o644)
	})
}

// ReplayUnit is one (ethBlock, repeat) stem present in the cache
// directory for the given extension.
type ReplayUnit struct {
	EthBlock uint64
	Repeat   int
}

// DirSize sums the apparent size of every regular file directly under
// the cache directory (the advisory lock file included).
func (s *Store) DirSize() (datasize.ByteSize, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, scrapeerrors.Wrapf(err, "read cache dir %s", s.dir)
	}
	var total datasize.ByteSize
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += datasize.ByteSize(info.Size())
	}
	return total, nil
}

// Prune removes every cache file sharing the (ethBlock, repeat) stem,
// across all extensions. Callers use this once a blob's contents are
// durably folded into the lookup table and the cache copy is no
// longer needed for replay.
func (s *Store) Prune(ethBlock uint64, repeat int) error {
	return s.withLock(func() error {
		for _, ext := range []Ext{ExtBlob, ExtSeq, ExtUnc, ExtAnno, ExtJSON} {
			path := s.Name(ethBlock, repeat, ext)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return scrapeerrors.Wrapf(err, "prune %s", path)
			}
		}
		return nil
	})
}

// ListReplayUnits scans dir for files with the given extension and
// returns their (block, repeat) stems in numeric-then-repeat order,
// the order a local-parse run must process them in.
func (s *Store) ListReplayUnits(ext Ext) ([]ReplayUnit, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, scrapeerrors.Wrapf(err, "read cache dir %s", s.dir)
	}

	var units []ReplayUnit
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, string(ext)) {
			continue
		}
		stem := strings.TrimSuffix(name, string(ext))
		block, repeat, ok := parseStem(stem)
		if !ok {
			continue
		}
		units = append(units, ReplayUnit{EthBlock: block, Repeat: repeat})
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].EthBlock != units[j].EthBlock {
			return units[i].EthBlock < units[j].EthBlock
		}
		return units[i].Repeat < units[j].Repeat
	})
	return units, nil
}

func parseStem(stem string) (block uint64, repeat int, ok bool) {
	parts := strings.SplitN(stem, "-", 2)
	block, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return block, 0, true
	}
	r, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return block, r, true
}
