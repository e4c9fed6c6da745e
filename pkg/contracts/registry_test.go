package contracts

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

func encodeRegistryEvent(t *testing.T, assetID *big.Int, sender common.Address, eventType string, proofHash [32]byte, timestamp, processID *big.Int, validator common.Address) ([]common.Hash, []byte) {
	t.Helper()

	parsed, err := abi.JSON(strings.NewReader(AssetRegistryABI))
	if err != nil {
		t.Fatalf("parse ABI: %v", err)
	}
	data, err := parsed.Events["RegistryEvent"].Inputs.NonIndexed().Pack(eventType, proofHash, timestamp, validator, processID)
	if err != nil {
		t.Fatalf("pack event data: %v", err)
	}
	topics := []common.Hash{
		RegistryEventID,
		common.BigToHash(assetID),
		common.BytesToHash(sender.Bytes()),
	}
	return topics, data
}

func TestParseRegistryEvent(t *testing.T) {
	sender := common.HexToAddress("0x1111111111111111111111111111111111111111")
	validator := common.HexToAddress("0x2222222222222222222222222222222222222222")
	var proofHash [32]byte
	proofHash[31] = 0xab

	topics, data := encodeRegistryEvent(t,
		big.NewInt(42), sender, "HANDOVER_PROOF", proofHash,
		big.NewInt(1700000000), big.NewInt(0xabc), validator)

	ev, err := ParseRegistryEvent(topics, data)
	if err != nil {
		t.Fatalf("ParseRegistryEvent() failed: %v", err)
	}
	if ev.AssetId.Int64() != 42 {
		t.Errorf("assetId = %s, want 42", ev.AssetId)
	}
	if ev.EventType != "HANDOVER_PROOF" {
		t.Errorf("eventType = %q", ev.EventType)
	}
	if ev.Sender != sender {
		t.Errorf("sender = %s", ev.Sender.Hex())
	}
	if ev.ProofHash != proofHash {
		t.Errorf("proofHash = %x", ev.ProofHash)
	}
	if ev.Timestamp.Int64() != 1700000000 {
		t.Errorf("timestamp = %s", ev.Timestamp)
	}
	if ev.Validator != validator {
		t.Errorf("validator = %s", ev.Validator.Hex())
	}
	if ev.ProcessId.Int64() != 0xabc {
		t.Errorf("processId = %s", ev.ProcessId)
	}
}

func TestParseRegistryEvent_WrongTopic(t *testing.T) {
	topics := []common.Hash{common.HexToHash("0xdeadbeef"), {}, {}}
	if _, err := ParseRegistryEvent(topics, nil); err != ErrNotRegistryEvent {
		t.Fatalf("expected ErrNotRegistryEvent, got %v", err)
	}
	if _, err := ParseRegistryEvent([]common.Hash{RegistryEventID}, nil); err != ErrNotRegistryEvent {
		t.Fatalf("expected ErrNotRegistryEvent for missing topics, got %v", err)
	}
}

func TestPackCalldata(t *testing.T) {
	var proofHash [32]byte
	proofHash[0] = 0x01

	create, err := PackCreateAsset("CREATED")
	if err != nil {
		t.Fatalf("PackCreateAsset() failed: %v", err)
	}
	submit, err := PackSubmitProof(big.NewInt(7), proofHash, "HANDOVER_PROOF", nil)
	if err != nil {
		t.Fatalf("PackSubmitProof() failed: %v", err)
	}
	verify, err := PackVerifyAsset(big.NewInt(7), proofHash, "ATTESTATION")
	if err != nil {
		t.Fatalf("PackVerifyAsset() failed: %v", err)
	}

	// 4-byte selector plus at least one ABI word each.
	for name, calldata := range map[string][]byte{"createAsset": create, "submitProof": submit, "verifyAsset": verify} {
		if len(calldata) < 4+32 {
			t.Errorf("%s calldata too short: %d bytes", name, len(calldata))
		}
	}
}
