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

import "math/big"

// hexString renders a felt as "0x<hex>" with no leading zeros beyond
// the prefix (so zero becomes "0x0", matching the reference encoder).
func hexString(v *big.Int) string {
	return "0x" + v.Text(16)
}

// JSONStorageEntry is one storage key/value pair in JSON form.
type JSONStorageEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// JSONStorageDiff is one contract's nonempty storage update list.
type JSONStorageDiff struct {
	Address        string             `json:"address"`
	StorageEntries []JSONStorageEntry `json:"storage_entries"`
}

// JSONDeployedOrReplaced is one contract whose class hash changed.
type JSONDeployedOrReplaced struct {
	Address   string `json:"address"`
	ClassHash string `json:"class_hash"`
}

// JSONNonce is one contract's nonzero nonce.
type JSONNonce struct {
	ContractAddress string `json:"contract_address"`
	Nonce           string `json:"nonce"`
}

// JSONClassDeclaration mirrors ClassDeclaration in JSON form.
type JSONClassDeclaration struct {
	ClassHash         string `json:"class_hash"`
	CompiledClassHash string `json:"compiled_class_hash"`
}

// JSONStateDiff is the wire shape emitted by --json.
type JSONStateDiff struct {
	StorageDiffs       []JSONStorageDiff        `json:"storage_diffs"`
	DeclaredClasses    []JSONClassDeclaration   `json:"declared_classes"`
	DeployedOrReplaced []JSONDeployedOrReplaced `json:"deployed_or_replaced"`
	Nonces             []JSONNonce              `json:"nonces"`
}

// ToJSON projects a StateDiff into its JSON wire shape. Contracts
// with no storage updates are omitted from storage_diffs; contracts
// without a class-hash update are omitted from deployed_or_replaced;
// contracts with a zero nonce are omitted from nonces.
func (sd *StateDiff) ToJSON() JSONStateDiff {
	out := JSONStateDiff{
		StorageDiffs:       []JSONStorageDiff{},
		DeclaredClasses:    make([]JSONClassDeclaration, 0, len(sd.ClassDeclarations)),
		DeployedOrReplaced: []JSONDeployedOrReplaced{},
		Nonces:             []JSONNonce{},
	}

	for _, cu := range sd.ContractUpdates {
		if len(cu.StorageUpdates) > 0 {
			entries := make([]JSONStorageEntry, 0, len(cu.StorageUpdates))
			for _, su := range cu.StorageUpdates {
				entries = append(entries, JSONStorageEntry{
					Key:   hexString(su.Key),
					Value: hexString(su.Value),
				})
			}
			out.StorageDiffs = append(out.StorageDiffs, JSONStorageDiff{
				Address:        hexString(cu.Address),
				StorageEntries: entries,
			})
		}
		if cu.NewClassHash != nil {
			out.DeployedOrReplaced = append(out.DeployedOrReplaced, JSONDeployedOrReplaced{
				Address:   hexString(cu.Address),
				ClassHash: hexString(cu.NewClassHash),
			})
		}
		if cu.Nonce != 0 {
			out.Nonces = append(out.Nonces, JSONNonce{
				ContractAddress: hexString(cu.Address),
				Nonce:           hexString(new(big.Int).SetUint64(cu.Nonce)),
			})
		}
	}

	for _, cd := range sd.ClassDeclarations {
		out.DeclaredClasses = append(out.DeclaredClasses, JSONClassDeclaration{
			ClassHash:         hexString(cd.ClassHash),
			CompiledClassHash: hexString(cd.CompiledClassHash),
		})
	}

	return out
}
