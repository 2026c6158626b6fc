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

// Package ethscan locates Starknet state-update transactions on
// Ethereum: it filters StarknetCore's LogStateUpdate events over a
// block range, then fetches the matching transaction and its blob
// versioned hashes via go-ethereum's ethclient.
package ethscan

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/n42blockchain/N42/log"
	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
)

// StarknetCoreAddress is the mainnet Starknet Core contract address
// whose LogStateUpdate events mark a new state update.
var StarknetCoreAddress = common.HexToAddress("0xc662c410C0ECf747543f5bA90660f6ABeBD9C8c4")

// LogStateUpdateTopic is keccak256("LogStateUpdate(uint256,int256,uint256)").
var LogStateUpdateTopic = common.HexToHash("0xd342ddf7a308dec111745b00315c14b7efb2bdae570a6856e088ed0c65a3576c")

// Scanner wraps an ethclient.Client to locate and fetch state-update
// transactions.
type Scanner struct {
	cli *ethclient.Client
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*Scanner, error) {
	cli, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, scrapeerrors.Wrapf(err, "dial %s", rpcURL)
	}
	return &Scanner{cli: cli}, nil
}

// Close releases the underlying RPC connection.
func (s *Scanner) Close() {
	s.cli.Close()
}

// StateUpdateLog is one matched LogStateUpdate event.
type StateUpdateLog struct {
	TxHash      common.Hash
	EthBlockNo  uint64
	StarknetBlk uint64
}

// FindStateUpdates filters LogStateUpdate events emitted by
// StarknetCoreAddress between fromBlock and toBlock (inclusive).
func (s *Scanner) FindStateUpdates(ctx context.Context, fromBlock, toBlock uint64) ([]StateUpdateLog, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{StarknetCoreAddress},
		Topics:    [][]common.Hash{{LogStateUpdateTopic}},
	}

	logs, err := s.cli.FilterLogs(ctx, query)
	if err != nil {
		return nil, scrapeerrors.Wrap(scrapeerrors.ErrLogFetchFailed, err.Error())
	}
	if len(logs) == 0 {
		return nil, scrapeerrors.ErrNoLogsFound
	}

	out := make([]StateUpdateLog, 0, len(logs))
	for _, lg := range logs {
		starknetBlk := starknetBlockFromLog(lg)
		out = append(out, StateUpdateLog{
			TxHash:      lg.TxHash,
			EthBlockNo:  lg.BlockNumber,
			StarknetBlk: starknetBlk,
		})
	}
	return out, nil
}

// starknetBlockFromLog bit-casts the Starknet block number out of the
// log data's second 32-byte word (the event's int256 block number),
// keeping its low 64 bits. Data shorter than two words yields 0.
func starknetBlockFromLog(lg types.Log) uint64 {
	if len(lg.Data) < 64 {
		return 0
	}
	return new(big.Int).SetBytes(lg.Data[56:64]).Uint64()
}

// BlobTransaction is a located EIP-4844 transaction and its blob
// versioned hashes.
type BlobTransaction struct {
	Hash       common.Hash
	BlobHashes []common.Hash
	EthBlockNo uint64
}

// FetchBlobTransaction retrieves txHash and validates it carries an
// EIP-4844 blob sidecar.
func (s *Scanner) FetchBlobTransaction(ctx context.Context, txHash common.Hash) (*BlobTransaction, error) {
	tx, isPending, err := s.cli.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, scrapeerrors.Wrapf(err, "fetch tx %s", txHash)
	}
	if isPending {
		log.Warn("blob transaction still pending", "tx", txHash)
	}
	if tx.Type() != types.BlobTxType {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrNotBlobTransaction, "%s", txHash)
	}
	hashes := tx.BlobHashes()
	if len(hashes) == 0 {
		return nil, scrapeerrors.Wrapf(scrapeerrors.ErrNoBlobHashes, "%s", txHash)
	}

	receipt, err := s.cli.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, scrapeerrors.Wrapf(err, "fetch receipt %s", txHash)
	}

	return &BlobTransaction{
		Hash:       txHash,
		BlobHashes: hashes,
		EthBlockNo: receipt.BlockNumber.Uint64(),
	}, nil
}
