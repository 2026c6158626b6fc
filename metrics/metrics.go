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

// Package metrics declares the operational counters this module
// exposes, backed by github.com/VictoriaMetrics/metrics. No HTTP
// handler is registered here; WritePrometheus lets the embedding
// process expose these on whatever path it chooses.
package metrics

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

var (
	// BlobsFetched counts successful blob retrievals.
	BlobsFetched = metrics.NewCounter("starknet_scrape_blobs_fetched_total")

	// BlobFetchRetries counts retry attempts across all blob fetches.
	BlobFetchRetries = metrics.NewCounter("starknet_scrape_blob_fetch_retries_total")

	// BlobsParsed counts blobs successfully parsed into a state diff.
	BlobsParsed = metrics.NewCounter("starknet_scrape_blobs_parsed_total")

	// LookupExpansions counts Lookup.Expand calls that committed at
	// least one new entry.
	LookupExpansions = metrics.NewCounter("starknet_scrape_lookup_expansions_total")
)

// WritePrometheus writes every registered metric's current value in
// Prometheus exposition format.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
