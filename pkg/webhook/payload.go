package webhook

import (
	"encoding/json"
	"strings"
)

// Payload is the top-level webhook delivery. The provider sends two shapes:
// address-activity deliveries carry logs under event.activity[].log, custom
// GraphQL deliveries under event.data.block.logs. Both are handled.
type Payload struct {
	WebhookID string        `json:"webhookId"`
	ID        string        `json:"id"`
	CreatedAt string        `json:"createdAt"`
	Type      string        `json:"type"`
	Event     *PayloadEvent `json:"event"`
}

// PayloadEvent is the event envelope of a delivery.
type PayloadEvent struct {
	Network  string         `json:"network"`
	Activity []ActivityItem `json:"activity"`
	Data     *CustomData    `json:"data"`
}

// ActivityItem is one entry of an address-activity delivery.
type ActivityItem struct {
	BlockNum    string       `json:"blockNum"`
	Hash        string       `json:"hash"`
	FromAddress string       `json:"fromAddress"`
	ToAddress   string       `json:"toAddress"`
	Log         *ActivityLog `json:"log"`
}

// ActivityLog is the raw contract log attached to an activity entry.
type ActivityLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNum        string   `json:"blockNum"`
	TransactionHash string   `json:"transactionHash"`
}

// CustomData is the payload of a custom GraphQL delivery.
type CustomData struct {
	Block *BlockData `json:"block"`
}

// BlockData groups the logs of one block.
type BlockData struct {
	Number json.Number `json:"number"`
	Logs   []BlockLog  `json:"logs"`
}

// BlockLog is one raw contract log of a custom delivery.
type BlockLog struct {
	Account     *LogAccount     `json:"account"`
	Topics      []string        `json:"topics"`
	Data        string          `json:"data"`
	Transaction *LogTransaction `json:"transaction"`
}

// LogAccount identifies the emitting contract.
type LogAccount struct {
	Address string `json:"address"`
}

// LogTransaction identifies the transaction that emitted a log.
type LogTransaction struct {
	Hash string `json:"hash"`
}

// ContractLog is a raw log normalized across both delivery shapes.
type ContractLog struct {
	Address         string
	Topics          []string
	Data            string
	TransactionHash string
	BlockNumber     string
}

// CollectContractLogs extracts the logs emitted by contractAddress from a
// delivery. The address comparison is case-insensitive; logs from any other
// contract are dropped.
func CollectContractLogs(p *Payload, contractAddress string) []ContractLog {
	if p == nil || p.Event == nil {
		return nil
	}

	var logs []ContractLog
	keep := func(address string) bool {
		return strings.EqualFold(address, contractAddress)
	}

	for _, item := range p.Event.Activity {
		if item.Log == nil || !keep(item.Log.Address) {
			continue
		}
		txHash := item.Hash
		if txHash == "" {
			txHash = item.Log.TransactionHash
		}
		blockNum := item.BlockNum
		if blockNum == "" {
			blockNum = item.Log.BlockNum
		}
		logs = append(logs, ContractLog{
			Address:         item.Log.Address,
			Topics:          item.Log.Topics,
			Data:            item.Log.Data,
			TransactionHash: txHash,
			BlockNumber:     blockNum,
		})
	}

	if p.Event.Data != nil && p.Event.Data.Block != nil {
		block := p.Event.Data.Block
		for _, lg := range block.Logs {
			if lg.Account == nil || !keep(lg.Account.Address) {
				continue
			}
			var txHash string
			if lg.Transaction != nil {
				txHash = lg.Transaction.Hash
			}
			logs = append(logs, ContractLog{
				Address:         lg.Account.Address,
				Topics:          lg.Topics,
				Data:            lg.Data,
				TransactionHash: txHash,
				BlockNumber:     block.Number.String(),
			})
		}
	}

	return logs
}
