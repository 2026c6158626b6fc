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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/n42blockchain/N42/blobfetch"
	"github.com/n42blockchain/N42/conf"
	"github.com/n42blockchain/N42/decompress"
	"github.com/n42blockchain/N42/dumpfile"
	"github.com/n42blockchain/N42/ethscan"
	"github.com/n42blockchain/N42/feltutil"
	"github.com/n42blockchain/N42/log"
	"github.com/n42blockchain/N42/lookup"
	"github.com/n42blockchain/N42/metrics"
	"github.com/n42blockchain/N42/modules/lookupstore"
	"github.com/n42blockchain/N42/packing"
	"github.com/n42blockchain/N42/statediff"
)

// App wires the scraper's components together for one CLI
// invocation: the blob fetcher, the cache store, the lookup table,
// and the parser that drives them.
type App struct {
	cfg     conf.AppConfig
	cache   *dumpfile.Store
	fetcher *blobfetch.Fetcher
	scanner *ethscan.Scanner
	store   *lookupstore.MDBXStore
	lk      *lookup.Lookup
}

// NewApp constructs an App from a loaded config. noConnect skips the
// Ethereum RPC dial and blob fetcher wiring (cache-only operation).
func NewApp(ctx context.Context, cfg conf.AppConfig, noConnect bool) (*App, error) {
	cache, err := dumpfile.NewStore(cfg.Scraper.CacheDir)
	if err != nil {
		return nil, err
	}

	store, err := lookupstore.OpenMDBXStore(cfg.Scraper.LookupDBPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		cache: cache,
		store: store,
		lk:    lookup.New(store),
	}

	if !noConnect {
		scanner, err := ethscan.Dial(ctx, cfg.Scraper.RPCURL)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.scanner = scanner
		a.fetcher = blobfetch.NewFetcher(cfg.Scraper.BlobURLBase, 4)
	}

	return a, nil
}

// Close releases the App's RPC connection and store handle.
func (a *App) Close() {
	if a.scanner != nil {
		a.scanner.Close()
	}
	a.store.Close()
}

// warnIfCacheOversize logs once per call when the cache directory has
// grown past the configured cap; it never deletes anything itself —
// that's --prune's job.
func (a *App) warnIfCacheOversize() {
	if a.cfg.Scraper.MaxCacheSize == 0 {
		return
	}
	size, err := a.cache.DirSize()
	if err != nil {
		return
	}
	if size > a.cfg.Scraper.MaxCacheSize {
		log.Warn("cache directory exceeds configured cap", "size", size.HumanReadable(), "cap", a.cfg.Scraper.MaxCacheSize.HumanReadable())
	}
}

// processOneBlob reconstructs, decompresses, and optionally parses a
// single already-fetched field-element sequence, annotating and
// caching as dictated by cliCtx's flags.
func (a *App) processOneBlob(cliCtx *cli.Context, ethBlock uint64, repeat int, sequence []*big.Int, blockNo uint64) error {
	if cliCtx.Bool("dump") {
		if err := a.cache.WriteFelts(ethBlock, repeat, dumpfile.ExtSeq, sequence); err != nil {
			return err
		}
		a.warnIfCacheOversize()
	}

	// A header whose first field element fits in uint64 (top 180+ bits
	// clear) is the legacy, never-compressed v0.13.1 layout; anything
	// else is a v0.13.3 bucketed header that must be decompressed
	// before parsing.
	unpacked := sequence
	pc := packing.NewPackConstV0133()
	if len(sequence) == 0 || !sequence[0].IsUint64() {
		result, err := decompress.Decompress(feltutil.NewSliceIterator(sequence))
		if err != nil {
			return err
		}
		unpacked = result.Sequence

		if cliCtx.Bool("dump") {
			if err := a.cache.WriteFelts(ethBlock, repeat, dumpfile.ExtUnc, unpacked); err != nil {
				return err
			}
		}
	} else {
		pc = packing.NewPackConstV0131()
	}

	if !cliCtx.Bool("parse") && !cliCtx.Bool("json") && !cliCtx.Bool("annotate-only") {
		return nil
	}

	var anno io.Writer = io.Discard
	var annoBuf strings.Builder
	if cliCtx.Bool("annotate-only") || cliCtx.Bool("dump") {
		anno = &annoBuf
	}

	a.lk.SetBlockNo(blockNo)
	p := statediff.NewParser(pc, a.lk, anno)
	sd, err := p.Parse(feltutil.NewSliceIterator(unpacked))
	if err != nil {
		return err
	}
	metrics.BlobsParsed.Inc()

	if cliCtx.Bool("dump") && annoBuf.Len() > 0 {
		if err := a.cache.WriteText(ethBlock, repeat, dumpfile.ExtAnno, annoBuf.String()); err != nil {
			return err
		}
	}

	if cliCtx.Bool("json") {
		out, err := json.MarshalIndent(sd.ToJSON(), "", "  ")
		if err != nil {
			return err
		}
		if cliCtx.Bool("dump") {
			if err := a.cache.WriteText(ethBlock, repeat, dumpfile.ExtJSON, string(out)); err != nil {
				return err
			}
		}
		fmt.Println(string(out))
	}

	if cliCtx.Bool("prune") {
		if err := a.cache.Prune(ethBlock, repeat); err != nil {
			log.Warn("prune failed", "ethBlock", ethBlock, "repeat", repeat, "err", err)
		}
	}

	return nil
}
