//go:build ignore

// submit-event.go - Submit an off-chain event to a running registry API server
//
// Usage:
//   go run scripts/submit-event.go -server http://localhost:8080 \
//     -type RETURN_VERIFIED \
//     -asset 7 \
//     -sender "0x1111111111111111111111111111111111111111" \
//     -process 6898f1cb8f8bd0b4d6678932

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "Base URL of the registry API server")
	eventType = flag.String("type", "", "Event type (e.g. CREATED, PROOF_SUBMITTED, RETURN_VERIFIED)")
	assetID   = flag.Int64("asset", 0, "Asset ID the event refers to")
	sender    = flag.String("sender", "", "Sender wallet address (0x...)")
	processID = flag.String("process", "", "Optional 24-hex process reference")
	proofHash = flag.String("proof", "", "Optional 32-byte proof hash (0x + 64 hex)")
)

func main() {
	flag.Parse()

	if *eventType == "" || *assetID <= 0 || *sender == "" {
		fmt.Println("Error: -type, -asset and -sender are required")
		fmt.Println("Usage: go run scripts/submit-event.go -server URL -type TYPE -asset ID -sender 0x...")
		os.Exit(1)
	}

	payload := map[string]any{
		"type":    *eventType,
		"assetId": *assetID,
		"sender":  *sender,
	}
	if *processID != "" {
		payload["processId"] = *processID
	}
	if *proofHash != "" {
		payload["proofHash"] = *proofHash
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("======================================================================")
	fmt.Println("SUBMIT EVENT - Direct off-chain event submission")
	fmt.Println("======================================================================")
	fmt.Printf("Server:  %s\n", *serverURL)
	fmt.Printf("Type:    %s\n", *eventType)
	fmt.Printf("Asset:   %d\n", *assetID)
	fmt.Printf("Sender:  %s\n", *sender)
	if *processID != "" {
		fmt.Printf("Process: %s\n", *processID)
	}

	resp, err := http.Post(*serverURL+"/api/events", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("\nStatus: %s\n", resp.Status)
	fmt.Printf("Body:   %s\n", respBody)

	if resp.StatusCode != http.StatusCreated {
		os.Exit(1)
	}
}
