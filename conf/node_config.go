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

package conf

import "github.com/c2h5oh/datasize"

// NodeConfig holds the small amount of process-wide placement
// configuration the logger needs (where to root its log directory).
type NodeConfig struct {
	// DataDir is the root directory the process may write runtime state
	// under (logs, the lookup-table database, cache files).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ScraperConfig holds the scraper-specific settings loaded from the
// YAML configuration file pointed at by --config.
type ScraperConfig struct {
	// RPCURL is the Ethereum JSON-RPC endpoint used for eth_getLogs /
	// eth_getTransactionByHash.
	RPCURL string `json:"rpc_url" yaml:"rpc_url"`

	// BlobURLBase is prefixed to "0x<versioned hash>" to form the blob
	// sidecar fetch URL.
	BlobURLBase string `json:"blob_url_base" yaml:"blob_url_base"`

	// PathfinderRPCURL is an optional Starknet JSON-RPC endpoint. It is
	// loaded from the config file but nothing in this module reads it.
	PathfinderRPCURL string `json:"pathfinder_rpc_url" yaml:"pathfinder_rpc_url"`

	// CacheDir is where .blob/.seq/.unc/.anno/.json dump files are
	// written and where local-parse runs read them back from.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// LookupDBPath is the MDBX data file backing the stateful
	// compression lookup table.
	LookupDBPath string `json:"lookup_db_path" yaml:"lookup_db_path"`

	// MaxCacheSize is the on-disk size of CacheDir above which a
	// warning is logged after a --dump write. Nothing is deleted to
	// keep the cache under it.
	MaxCacheSize datasize.ByteSize `json:"max_cache_size" yaml:"max_cache_size"`
}

// DefaultScraperConfig returns sane defaults for local experimentation.
func DefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		RPCURL:       "http://127.0.0.1:8545",
		BlobURLBase:  "https://blobscan.com/api/blobs/",
		CacheDir:     "./cache",
		LookupDBPath: "./cache/lookup.mdbx",
		MaxCacheSize: 1 * datasize.GB,
	}
}
