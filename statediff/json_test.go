// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package statediff

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestToJSONStorageEntry(t *testing.T) {
	sd := &StateDiff{
		ContractUpdates: []ContractUpdate{
			{
				Address: big.NewInt(0x2a),
				Nonce:   0,
				StorageUpdates: []StorageUpdate{
					{Key: big.NewInt(1), Value: big.NewInt(0x14)},
				},
			},
		},
	}
	out := sd.ToJSON()
	if len(out.StorageDiffs) != 1 {
		t.Fatalf("expected 1 storage diff, got %d", len(out.StorageDiffs))
	}
	b, err := json.Marshal(out.StorageDiffs[0])
	if err != nil {
		t.Fatal(err)
	}
	want := `{"address":"0x2a","storage_entries":[{"key":"0x1","value":"0x14"}]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestToJSONDeployedAndNonce(t *testing.T) {
	sd := &StateDiff{
		ContractUpdates: []ContractUpdate{
			{Address: big.NewInt(0x2a), Nonce: 0, NewClassHash: big.NewInt(0x25)},
		},
	}
	out := sd.ToJSON()
	if len(out.DeployedOrReplaced) != 1 {
		t.Fatalf("expected 1 deployed entry")
	}
	b, _ := json.Marshal(out.DeployedOrReplaced[0])
	if string(b) != `{"address":"0x2a","class_hash":"0x25"}` {
		t.Fatalf("got %s", b)
	}
	if len(out.Nonces) != 0 {
		t.Fatalf("zero-nonce contract should be omitted from nonces, got %v", out.Nonces)
	}
}

func TestToJSONNonZeroNonce(t *testing.T) {
	sd := &StateDiff{
		ContractUpdates: []ContractUpdate{
			{Address: big.NewInt(0x2a), Nonce: 7},
		},
	}
	out := sd.ToJSON()
	if len(out.Nonces) != 1 {
		t.Fatalf("expected 1 nonce entry, got %v", out.Nonces)
	}
	b, _ := json.Marshal(out.Nonces[0])
	if string(b) != `{"contract_address":"0x2a","nonce":"0x7"}` {
		t.Fatalf("got %s", b)
	}
}
