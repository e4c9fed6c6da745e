//go:build ignore

// replay-webhook.go - Build a synthetic RegistryEvent webhook delivery, sign
// it with the configured HMAC key and POST it to a running server. Useful for
// smoke testing the ingestion path without a chain or a webhook provider.
//
// Usage:
//   go run scripts/replay-webhook.go -config config.yaml \
//     -server http://localhost:8080 \
//     -type CREATED \
//     -asset 7 \
//     -sender "0x1111111111111111111111111111111111111111"

package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/rentgrid/registry-middleware/pkg/config"
	"github.com/rentgrid/registry-middleware/pkg/contracts"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/webhook"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to config file")
	serverURL  = flag.String("server", "http://localhost:8080", "Base URL of the registry API server")
	eventType  = flag.String("type", "CREATED", "On-chain event type")
	assetID    = flag.Int64("asset", 1, "Asset ID")
	sender     = flag.String("sender", "0x1111111111111111111111111111111111111111", "Sender address")
	processID  = flag.String("process", "", "Optional 24-hex process reference")
	proofHash  = flag.String("proof", "", "Optional 32-byte proof hash (0x + 64 hex)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Webhook.SigningKey == "" {
		fmt.Println("Error: webhook.signing_key is not set in the config")
		os.Exit(1)
	}

	topics, data, err := encodeLog()
	if err != nil {
		fmt.Printf("Failed to encode log: %v\n", err)
		os.Exit(1)
	}

	txHash := "0x" + strings.Repeat("f", 64)
	payload := map[string]any{
		"webhookId": "wh_replay",
		"id":        uuid.NewString(),
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"type":      "ADDRESS_ACTIVITY",
		"event": map[string]any{
			"network": "ETH_SEPOLIA",
			"activity": []map[string]any{{
				"hash":     txHash,
				"blockNum": "0x10",
				"log": map[string]any{
					"address":         cfg.Registry.ContractAddress,
					"topics":          topics,
					"data":            data,
					"blockNum":        "0x10",
					"transactionHash": txHash,
				},
			}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode payload: %v\n", err)
		os.Exit(1)
	}

	mac := hmac.New(sha256.New, []byte(cfg.Webhook.SigningKey))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	fmt.Println("======================================================================")
	fmt.Println("REPLAY WEBHOOK - Synthetic RegistryEvent delivery")
	fmt.Println("======================================================================")
	fmt.Printf("Server:   %s\n", *serverURL)
	fmt.Printf("Contract: %s\n", cfg.Registry.ContractAddress)
	fmt.Printf("Type:     %s\n", *eventType)
	fmt.Printf("Asset:    %d\n", *assetID)

	req, err := http.NewRequest(http.MethodPost, *serverURL+"/api/webhooks/registry", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SignatureHeader, signature)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("\nStatus: %s\n", resp.Status)
	fmt.Printf("Body:   %s\n", respBody)

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

// encodeLog packs the RegistryEvent topics and data the way the contract
// would emit them.
func encodeLog() ([]string, string, error) {
	parsed, err := abi.JSON(strings.NewReader(contracts.AssetRegistryABI))
	if err != nil {
		return nil, "", err
	}

	var hash [32]byte
	if *proofHash != "" {
		if !event.ValidProofHash(*proofHash) {
			return nil, "", fmt.Errorf("invalid proof hash %q", *proofHash)
		}
		raw, err := hex.DecodeString((*proofHash)[2:])
		if err != nil {
			return nil, "", err
		}
		copy(hash[:], raw)
	}

	procID := new(big.Int)
	if *processID != "" {
		procID, err = event.ProcessRefToUint(*processID)
		if err != nil {
			return nil, "", err
		}
	}

	data, err := parsed.Events["RegistryEvent"].Inputs.NonIndexed().Pack(
		*eventType,
		hash,
		big.NewInt(time.Now().Unix()),
		common.Address{},
		procID,
	)
	if err != nil {
		return nil, "", err
	}

	topics := []string{
		contracts.RegistryEventID.Hex(),
		common.BigToHash(big.NewInt(*assetID)).Hex(),
		common.HexToAddress(*sender).Hash().Hex(),
	}
	return topics, hexutil.Encode(data), nil
}
