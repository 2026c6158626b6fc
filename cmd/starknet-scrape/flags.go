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
	"github.com/urfave/cli/v2"
)

// Defaults mirrored from conf.DefaultAppConfig for flag values.
const (
	DefaultConfigPath = "config.yaml"
)

var appFlags = []cli.Flag{
	&cli.Uint64Flag{
		Name:  "from-block",
		Usage: "first Ethereum block to scan for state-update transactions",
	},
	&cli.Uint64Flag{
		Name:  "block-count",
		Usage: "number of Ethereum blocks to scan starting at --from-block",
		Value: 1,
	},
	&cli.BoolFlag{
		Name:  "parse",
		Usage: "run the state-diff parser over fetched/cached blobs",
	},
	&cli.BoolFlag{
		Name:  "parse-local",
		Usage: "process cached .seq/.unc files in numeric-then-repeat order instead of fetching",
	},
	&cli.BoolFlag{
		Name:  "annotate-only",
		Usage: "parse for annotation only; implies --parse-local --dump --no-connect",
	},
	&cli.BoolFlag{
		Name:  "json",
		Usage: "emit the JSON state-diff projection; implies --parse",
	},
	&cli.BoolFlag{
		Name:  "dump",
		Usage: "write .seq/.unc/.anno/.json cache files as each stage completes (no .blob file is written)",
	},
	&cli.BoolFlag{
		Name:  "save",
		Usage: "accepted but has no effect: the lookup-table database at lookup_db_path is always persisted across runs",
	},
	&cli.BoolFlag{
		Name:  "prune",
		Usage: "discard cache files for blocks already folded into the lookup table",
	},
	&cli.BoolFlag{
		Name:  "no-connect",
		Usage: "never reach out to the Ethereum RPC endpoint; cache-only operation",
	},
	&cli.BoolFlag{
		Name:  "single-shot",
		Usage: "process exactly --block-count blocks then exit, instead of following the chain head",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "path to the YAML configuration file",
		Value: DefaultConfigPath,
	},
}
