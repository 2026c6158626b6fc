// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package blobfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/n42blockchain/N42/feltutil"
)

func zeroBlobHex() string {
	return "0x" + strings.Repeat("00", 32*feltutil.FieldElementsPerBlob)
}

func TestFetchOneSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := blobResponse{Commitment: "0xabc", Data: zeroBlobHex()}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/", 2)
	rec, err := f.FetchOne(context.Background(), "deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Sequence) != feltutil.FieldElementsPerBlob {
		t.Fatalf("got %d elements, want %d", len(rec.Sequence), feltutil.FieldElementsPerBlob)
	}
	for _, v := range rec.Sequence {
		if v.Sign() != 0 {
			t.Fatalf("expected all-zero blob to transform to all zero, got nonzero element")
		}
	}
}

// The 1ns deadline has passed by the time FetchOne runs, so it fails
// without waiting out the retry backoff against the failing server.
func TestFetchOneExpiredContextIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/", 1)
	ctx, cancel := context.WithTimeout(context.Background(), 1)
	defer cancel()
	if _, err := f.FetchOne(ctx, "deadbeef"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestFetchManyPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := blobResponse{Commitment: "0xabc", Data: zeroBlobHex()}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/", 4)
	hashes := make([]string, 5)
	for i := range hashes {
		hashes[i] = fmt.Sprintf("%064x", i)
	}
	recs, err := f.FetchMany(context.Background(), hashes)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != len(hashes) {
		t.Fatalf("got %d results, want %d", len(recs), len(hashes))
	}
	for i, r := range recs {
		if r.VersionedHash != hashes[i] {
			t.Fatalf("result %d out of order: got %s, want %s", i, r.VersionedHash, hashes[i])
		}
	}
}
