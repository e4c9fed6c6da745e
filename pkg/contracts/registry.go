// Package contracts holds the ABI binding for the AssetRegistry contract.
// The contract is emit-only: it stores nothing on-chain and exists to emit
// RegistryEvent logs that the webhook pipeline decodes into stored events.
package contracts

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// AssetRegistryABI is the contract ABI. submitProof carries a processId so
// on-chain events can be linked back to an off-chain rental process.
const AssetRegistryABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "assetId", "type": "uint256"},
      {"indexed": false, "internalType": "string", "name": "eventType", "type": "string"},
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "bytes32", "name": "proofHash", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "timestamp", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "validator", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "processId", "type": "uint256"}
    ],
    "name": "RegistryEvent",
    "type": "event"
  },
  {
    "inputs": [{"internalType": "string", "name": "eventType", "type": "string"}],
    "name": "createAsset",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "nextAssetId",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "assetId", "type": "uint256"},
      {"internalType": "bytes32", "name": "proofHash", "type": "bytes32"},
      {"internalType": "string", "name": "eventType", "type": "string"},
      {"internalType": "uint256", "name": "processId", "type": "uint256"}
    ],
    "name": "submitProof",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "assetId", "type": "uint256"},
      {"internalType": "bytes32", "name": "proofHash", "type": "bytes32"},
      {"internalType": "string", "name": "eventType", "type": "string"}
    ],
    "name": "verifyAsset",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	registryABI       abi.ABI
	registryEventArgs abi.Arguments

	// RegistryEventID is the topic0 hash identifying RegistryEvent logs.
	RegistryEventID common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(AssetRegistryABI))
	if err != nil {
		panic(fmt.Sprintf("parse AssetRegistry ABI: %v", err))
	}
	registryABI = parsed

	ev, ok := registryABI.Events["RegistryEvent"]
	if !ok {
		panic("AssetRegistry ABI has no RegistryEvent")
	}
	RegistryEventID = ev.ID
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			registryEventArgs = append(registryEventArgs, arg)
		}
	}
}

// ErrNotRegistryEvent is returned when a log's topics do not match
// the RegistryEvent signature.
var ErrNotRegistryEvent = errors.New("log is not a RegistryEvent")

// RegistryEvent is a decoded RegistryEvent log. Field names follow the ABI
// argument names so the abi package can unpack into them directly.
type RegistryEvent struct {
	AssetId   *big.Int
	EventType string
	Sender    common.Address
	ProofHash [32]byte
	Timestamp *big.Int
	Validator common.Address
	ProcessId *big.Int
}

// ParseRegistryEvent decodes a raw contract log into a RegistryEvent.
// assetId and sender are indexed and arrive as topics; the rest is ABI-packed
// in the data payload.
func ParseRegistryEvent(topics []common.Hash, data []byte) (*RegistryEvent, error) {
	if len(topics) != 3 || topics[0] != RegistryEventID {
		return nil, ErrNotRegistryEvent
	}

	out := new(RegistryEvent)
	if err := registryABI.UnpackIntoInterface(out, "RegistryEvent", data); err != nil {
		return nil, fmt.Errorf("failed to unpack RegistryEvent data: %w", err)
	}
	if err := abi.ParseTopics(out, registryEventArgs, topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse RegistryEvent topics: %w", err)
	}
	return out, nil
}

// PackCreateAsset encodes calldata for createAsset.
func PackCreateAsset(eventType string) ([]byte, error) {
	return registryABI.Pack("createAsset", eventType)
}

// PackSubmitProof encodes calldata for submitProof. processID may be zero
// when the proof is not tied to a rental process.
func PackSubmitProof(assetID *big.Int, proofHash [32]byte, eventType string, processID *big.Int) ([]byte, error) {
	if processID == nil {
		processID = new(big.Int)
	}
	return registryABI.Pack("submitProof", assetID, proofHash, eventType, processID)
}

// PackVerifyAsset encodes calldata for verifyAsset.
func PackVerifyAsset(assetID *big.Int, proofHash [32]byte, eventType string) ([]byte, error) {
	return registryABI.Pack("verifyAsset", assetID, proofHash, eventType)
}
