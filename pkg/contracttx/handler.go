// Package contracttx builds unsigned AssetRegistry transactions. The server
// never signs or broadcasts anything; callers sign the returned payload with
// their own wallet.
package contracttx

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/rentgrid/registry-middleware/pkg/app/errors"
	apphttp "github.com/rentgrid/registry-middleware/pkg/app/http"
	"github.com/rentgrid/registry-middleware/pkg/config"
	"github.com/rentgrid/registry-middleware/pkg/contracts"
	"github.com/rentgrid/registry-middleware/pkg/event"
)

// TxPayload is an unsigned transaction ready for wallet signing.
type TxPayload struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// TxResponse wraps a payload with its context.
type TxResponse struct {
	Tx              TxPayload `json:"tx"`
	ContractAddress string    `json:"contractAddress"`
	AssetID         int64     `json:"assetId,omitempty"`
	Description     string    `json:"description"`
}

// ProofRequest is the body of submit-proof and verify requests.
type ProofRequest struct {
	AssetID   int64  `json:"assetId"`
	ProofHash string `json:"proofHash"`
	EventType string `json:"eventType,omitempty"`
	ProcessID string `json:"processId,omitempty"`
}

// HTTP serves the transaction-encoding endpoints.
type HTTP struct {
	contractAddress string
	logger          *zap.Logger
}

// RegisterRoutes registers the tx endpoints on the given chi router.
func RegisterRoutes(r chi.Router, cfg *config.Config, logger *zap.Logger) {
	h := &HTTP{
		contractAddress: cfg.Registry.ContractAddress,
		logger:          logger,
	}

	r.Route("/tx", func(r chi.Router) {
		r.Get("/create-asset", apphttp.HandleError(h.createAsset))
		r.Post("/submit-proof", apphttp.HandleError(h.submitProof))
		r.Post("/verify", apphttp.HandleError(h.verify))
	})
}

func (h *HTTP) createAsset(w http.ResponseWriter, r *http.Request) error {
	if h.contractAddress == "" {
		return apperrors.GeneralError(errors.New("registry contract address not configured"))
	}

	eventType := r.URL.Query().Get("eventType")
	if eventType == "" {
		eventType = event.TypeCreated
	}

	data, err := contracts.PackCreateAsset(eventType)
	if err != nil {
		return apperrors.GeneralError(fmt.Errorf("failed to encode createAsset: %w", err))
	}

	h.writeTx(w, &TxResponse{
		Tx:              TxPayload{To: h.contractAddress, Data: hexutil.Encode(data), Value: "0"},
		ContractAddress: h.contractAddress,
		Description:     fmt.Sprintf("Sign and send this transaction to create an on-chain asset (eventType: %s).", eventType),
	})
	return nil
}

func (h *HTTP) submitProof(w http.ResponseWriter, r *http.Request) error {
	if h.contractAddress == "" {
		return apperrors.GeneralError(errors.New("registry contract address not configured"))
	}

	req, proofHash, err := h.readProofRequest(r)
	if err != nil {
		return err
	}
	if req.EventType == "" {
		req.EventType = event.TypeProofSubmitted
	}

	processID, err := event.ProcessRefToUint(req.ProcessID)
	if err != nil {
		return apperrors.BadRequestError(err, "processId must be a 24-character hex reference")
	}

	data, err := contracts.PackSubmitProof(big.NewInt(req.AssetID), proofHash, req.EventType, processID)
	if err != nil {
		return apperrors.GeneralError(fmt.Errorf("failed to encode submitProof: %w", err))
	}

	h.writeTx(w, &TxResponse{
		Tx:              TxPayload{To: h.contractAddress, Data: hexutil.Encode(data), Value: "0"},
		ContractAddress: h.contractAddress,
		AssetID:         req.AssetID,
		Description:     fmt.Sprintf("Sign and send to submit proof (eventType: %s).", req.EventType),
	})
	return nil
}

func (h *HTTP) verify(w http.ResponseWriter, r *http.Request) error {
	if h.contractAddress == "" {
		return apperrors.GeneralError(errors.New("registry contract address not configured"))
	}

	req, proofHash, err := h.readProofRequest(r)
	if err != nil {
		return err
	}
	if req.EventType == "" {
		req.EventType = event.TypeAttestation
	}

	data, err := contracts.PackVerifyAsset(big.NewInt(req.AssetID), proofHash, req.EventType)
	if err != nil {
		return apperrors.GeneralError(fmt.Errorf("failed to encode verifyAsset: %w", err))
	}

	h.writeTx(w, &TxResponse{
		Tx:              TxPayload{To: h.contractAddress, Data: hexutil.Encode(data), Value: "0"},
		ContractAddress: h.contractAddress,
		AssetID:         req.AssetID,
		Description:     fmt.Sprintf("Sign and send to verify asset (eventType: %s).", req.EventType),
	})
	return nil
}

func (h *HTTP) readProofRequest(r *http.Request) (*ProofRequest, [32]byte, error) {
	var zero [32]byte

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, zero, apperrors.BadRequestError(err, "failed to read request")
	}
	var req ProofRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, zero, apperrors.BadRequestError(err, "invalid JSON")
	}
	if req.AssetID <= 0 {
		return nil, zero, apperrors.BadRequestError(nil, "assetId must be a positive integer")
	}

	proofHash, err := parseProofHash(req.ProofHash)
	if err != nil {
		return nil, zero, apperrors.BadRequestError(err, "proofHash must be 32 bytes (0x + 64 hex characters)")
	}
	return &req, proofHash, nil
}

// parseProofHash accepts a 32-byte hex string with or without 0x prefix.
func parseProofHash(s string) ([32]byte, error) {
	var out [32]byte
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	if !event.ValidProofHash(s) {
		return out, fmt.Errorf("invalid proof hash %q", s)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}

func (h *HTTP) writeTx(w http.ResponseWriter, resp *TxResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
