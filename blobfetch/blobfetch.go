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

// Package blobfetch retrieves blob sidecars over HTTPS with bounded
// retry and runs the CPU-bound inverse-FFT transform on each fetched
// blob. The transform runs in the goroutine that fetched the blob,
// while it still holds its fetch slot; there is no separate worker
// pool for it.
package blobfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/n42blockchain/N42/blobutil"
	"github.com/n42blockchain/N42/log"
	"github.com/n42blockchain/N42/metrics"
	"github.com/n42blockchain/N42/transform"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

const (
	maxFetchAttempts = 5
	retryBackoff     = 10 * time.Second
)

// blobResponse mirrors the blob sidecar endpoint's JSON envelope.
type blobResponse struct {
	Commitment string `json:"commitment"`
	Data       string `json:"data"`
}

// Fetcher retrieves blob sidecars from an HTTPS endpoint and
// inverse-transforms them, bounding in-flight fetches (each including
// its transform) with a semaphore.
type Fetcher struct {
	client    *http.Client
	urlBase   string
	sem       *semaphore.Weighted
	transform *transform.Transformer
}

// NewFetcher builds a Fetcher. urlBase is prefixed directly to
// "0x<hex(versioned_hash)>" to form each request URL. maxConcurrent
// bounds in-flight HTTP fetches.
func NewFetcher(urlBase string, maxConcurrent int64) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Fetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		urlBase:   urlBase,
		sem:       semaphore.NewWeighted(maxConcurrent),
		transform: transform.New(),
	}
}

// Reconstructed is the outcome of fetching and inverse-transforming
// one blob.
type Reconstructed struct {
	VersionedHash string
	Sequence      []*big.Int
}

// FetchOne retrieves a single blob by its versioned hash (hex,
// without "0x") and reconstructs its field-element sequence. Network
// errors and HTTP status >= 400 are retried, retryBackoff apart, for
// at most maxFetchAttempts attempts in all; a status below 200 fails
// at once.
func (f *Fetcher) FetchOne(ctx context.Context, versionedHash string) (*Reconstructed, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.sem.Release(1)

	raw, err := f.fetchWithRetry(ctx, versionedHash)
	if err != nil {
		return nil, err
	}

	felts, err := blobutil.ParseBlobHex(raw.Data)
	if err != nil {
		return nil, err
	}

	metrics.BlobsFetched.Inc()
	sequence := f.transform.Transform(felts)
	return &Reconstructed{VersionedHash: versionedHash, Sequence: sequence}, nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, versionedHash string) (*blobResponse, error) {
	url := fmt.Sprintf("%s0x%s", f.urlBase, versionedHash)
	correlationID := uuid.New().String()

	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			metrics.BlobFetchRetries.Inc()
			log.Warn("retrying blob fetch", "hash", versionedHash, "attempt", attempt, "correlation_id", correlationID)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		resp, err := f.doRequest(ctx, url)
		if err == nil {
			return resp, nil
		}
		if scrapeerrors.Is(err, scrapeerrors.ErrBlobFetchFailed) {
			return nil, err
		}
		lastErr = err
	}
	return nil, scrapeerrors.Wrap(scrapeerrors.ErrBlobFetchFailed, lastErr.Error())
}

func (f *Fetcher) doRequest(ctx context.Context, url string) (*blobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrBlobFetchFailed, "status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, scrapeerrors.Errorf("blob fetch: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out blobResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, scrapeerrors.Wrap(err, "decode blob response")
	}
	return &out, nil
}

// FetchMany fetches and transforms every versioned hash concurrently,
// bounded by the Fetcher's semaphore, preserving input order in the
// returned slice.
func (f *Fetcher) FetchMany(ctx context.Context, versionedHashes []string) ([]*Reconstructed, error) {
	out := make([]*Reconstructed, len(versionedHashes))
	g, gctx := errgroup.WithContext(ctx)
	for i, vh := range versionedHashes {
		i, vh := i, vh
		g.Go(func() error {
			r, err := f.FetchOne(gctx, vh)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
