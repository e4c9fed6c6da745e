package webhook

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/rentgrid/registry-middleware/internal/metrics"
	"github.com/rentgrid/registry-middleware/pkg/contracts"
	"github.com/rentgrid/registry-middleware/pkg/event"
)

// DecodeEvents decodes contract logs into on-chain events. A log that cannot
// be decoded is counted, logged and skipped; one bad log never fails the rest
// of the batch.
func DecodeEvents(logs []ContractLog, logger *zap.Logger) []*event.Event {
	var events []*event.Event
	for _, lg := range logs {
		evt, reason := decodeLog(lg)
		if evt == nil {
			metrics.LogsSkipped.WithLabelValues(reason).Inc()
			logger.Debug("Skipping contract log",
				zap.String("reason", reason),
				zap.String("tx_hash", lg.TransactionHash),
			)
			continue
		}
		events = append(events, evt)
	}
	return events
}

// decodeLog turns one raw log into an event, or returns a skip reason.
func decodeLog(lg ContractLog) (*event.Event, string) {
	if len(lg.Topics) == 0 || lg.Data == "" {
		return nil, "empty_log"
	}

	topics := make([]common.Hash, len(lg.Topics))
	for i, topic := range lg.Topics {
		topics[i] = common.HexToHash(topic)
	}

	reg, err := contracts.ParseRegistryEvent(topics, common.FromHex(lg.Data))
	if err != nil {
		return nil, "not_registry_event"
	}
	if reg.EventType == "" {
		return nil, "missing_event_type"
	}
	if lg.TransactionHash == "" {
		return nil, "missing_transaction_hash"
	}
	if !reg.AssetId.IsInt64() || !reg.Timestamp.IsInt64() {
		return nil, "value_out_of_range"
	}

	// The contract emits all-zero words where no proof or validator applies.
	var proofHash string
	if reg.ProofHash != ([32]byte{}) {
		proofHash = "0x" + hex.EncodeToString(reg.ProofHash[:])
	}
	var validator string
	if reg.Validator != (common.Address{}) {
		validator = reg.Validator.Hex()
	}

	return &event.Event{
		Type:            reg.EventType,
		Source:          event.SourceOnChain,
		AssetID:         reg.AssetId.Int64(),
		ProcessID:       event.ProcessRefFromUint(reg.ProcessId),
		Sender:          reg.Sender.Hex(),
		ProofHash:       proofHash,
		Timestamp:       reg.Timestamp.Int64(),
		Validator:       validator,
		TransactionHash: lg.TransactionHash,
		BlockNumber:     lg.BlockNumber,
	}, ""
}
