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
	"fmt"
	"os"

	"github.com/RoaringBitmap/roaring"
	"github.com/mgutz/ansi"
	"github.com/urfave/cli/v2"

	"github.com/n42blockchain/N42/conf"
	"github.com/n42blockchain/N42/dumpfile"
	"github.com/n42blockchain/N42/log"
	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

const banner = `
 ███████╗████████╗ █████╗ ██████╗ ██╗  ██╗███╗   ██╗███████╗████████╗
 ██╔════╝╚══██╔══╝██╔══██╗██╔══██╗██║ ██╔╝████╗  ██║██╔════╝╚══██╔══╝
 ███████╗   ██║   ███████║██████╔╝█████╔╝ ██╔██╗ ██║█████╗     ██║
 ╚════██║   ██║   ██╔══██║██╔══██╗██╔═██╗ ██║╚██╗██║██╔══╝     ██║
 ███████║   ██║   ██║  ██║██║  ██║██║  ██╗██║ ╚████║███████╗   ██║
 ╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝   ╚═╝
`

const usageText = `starknet-scrape [options]

Fetch Starknet state-update blobs from Ethereum, reconstruct and
decompress them, and optionally parse the result into a state diff:

  starknet-scrape --from-block 20000000 --block-count 10 --parse --json
  starknet-scrape --parse-local --config config.yaml
  starknet-scrape --annotate-only --from-block 20000000`

func main() {
	fmt.Print(ansi.Color(banner, "cyan+b"))

	app := &cli.App{
		Name:                   "starknet-scrape",
		Usage:                  "reconstruct and parse Starknet state-update blobs",
		UsageText:              usageText,
		Flags:                  appFlags,
		UseShortOptionHandling: true,
		Action:                 run,
		Copyright:              "Copyright 2022-2026 The N42 Authors",
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cliCtx *cli.Context) error {
	annotateOnly := cliCtx.Bool("annotate-only")
	parseLocal := cliCtx.Bool("parse-local") || annotateOnly
	dump := cliCtx.Bool("dump") || annotateOnly
	noConnect := cliCtx.Bool("no-connect") || annotateOnly

	cfg, err := conf.LoadAppConfig(cliCtx.String("config"))
	if err != nil {
		log.Warn("using default config", "reason", err)
		cfg = conf.DefaultAppConfig()
	}
	log.Init(cfg.Node, cfg.Logger)
	defer log.Close()

	ctx := context.Background()
	app, err := NewApp(ctx, cfg, noConnect || parseLocal)
	if err != nil {
		return err
	}
	defer app.Close()

	if dump {
		cliCtx.Set("dump", "true")
	}

	if parseLocal {
		return runLocal(cliCtx, app)
	}
	return runLive(cliCtx, app)
}

// runLocal replays cached .seq files in numeric-then-repeat order.
func runLocal(cliCtx *cli.Context, app *App) error {
	units, err := app.cache.ListReplayUnits(dumpfile.ExtSeq)
	if err != nil {
		return err
	}
	for _, u := range units {
		felts, err := app.cache.ReadFelts(u.EthBlock, u.Repeat, dumpfile.ExtSeq)
		if err != nil {
			return err
		}
		if err := app.processOneBlob(cliCtx, u.EthBlock, u.Repeat, felts, u.EthBlock); err != nil {
			return err
		}
	}
	return nil
}

// runLive scans Ethereum for state-update transactions starting at
// --from-block, fetching and reconstructing each associated blob. With
// --single-shot unset it keeps advancing its scan window to follow the
// chain head; a window with no state-update logs is skipped. A bitmap
// of Ethereum block numbers handled in earlier windows guards against
// reprocessing a block. Blocks are added to it only once their window
// is done, so several state-update logs in one block are each
// processed, in log order.
func runLive(cliCtx *cli.Context, app *App) error {
	ctx := cliCtx.Context
	fromBlock := cliCtx.Uint64("from-block")
	blockCount := cliCtx.Uint64("block-count")
	singleShot := cliCtx.Bool("single-shot")

	seen := roaring.New()
	cursor := fromBlock

	for {
		toBlock := cursor + blockCount - 1

		logs, err := app.scanner.FindStateUpdates(ctx, cursor, toBlock)
		if err != nil && !scrapeerrors.Is(err, scrapeerrors.ErrNoLogsFound) {
			return err
		}

		var windowBlocks []uint32
		for _, lg := range logs {
			blockNo32 := uint32(lg.EthBlockNo)
			if seen.Contains(blockNo32) {
				continue
			}

			tx, err := app.scanner.FetchBlobTransaction(ctx, lg.TxHash)
			if err != nil {
				return err
			}

			hashes := make([]string, len(tx.BlobHashes))
			for i, h := range tx.BlobHashes {
				hashes[i] = h.Hex()[2:]
			}
			recs, err := app.fetcher.FetchMany(ctx, hashes)
			if err != nil {
				return err
			}

			for i, rec := range recs {
				if err := app.processOneBlob(cliCtx, lg.EthBlockNo, i, rec.Sequence, lg.StarknetBlk); err != nil {
					return err
				}
			}
			windowBlocks = append(windowBlocks, blockNo32)
		}
		seen.AddMany(windowBlocks)

		if singleShot {
			return nil
		}
		cursor = toBlock + 1
	}
}
