// Package event defines the immutable event record that drives every asset
// and process state change, whether observed on-chain or submitted directly.
package event

import (
	"regexp"
	"strings"
	"time"
)

// Source identifies which delivery channel produced an event.
type Source string

const (
	// SourceOnChain marks events decoded from contract logs delivered by the
	// webhook. These carry a transaction hash used as a natural dedup key.
	SourceOnChain Source = "on-chain"
	// SourceOffChain marks events submitted directly through the REST API.
	SourceOffChain Source = "off-chain"
)

// Event types emitted by the AssetRegistry contract or submitted off-chain.
// The type field is a free-form string on the wire; these constants cover the
// types the projectors react to. Anything else is stored and ignored.
const (
	TypeCreated                = "CREATED"
	TypeProofSubmitted         = "PROOF_SUBMITTED"
	TypeAttestation            = "ATTESTATION"
	TypeRentalInitiated        = "RENTAL_INITIATED"
	TypeParticipationConfirmed = "PARTICIPATION_CONFIRMED"
	TypeTermsAccepted          = "TERMS_ACCEPTED"
	TypeTermsRejected          = "TERMS_REJECTED"
	TypeNegotiationExpired     = "NEGOTIATION_EXPIRED"
	TypeDepositDeclared        = "DEPOSIT_DECLARED"
	TypeDepositConfirmed       = "DEPOSIT_CONFIRMED"
	TypeHandoverProof          = "HANDOVER_PROOF"
	TypeReturnProof            = "RETURN_PROOF"
	TypeReturnVerified         = "RETURN_VERIFIED"
	TypeDepositResolved        = "DEPOSIT_RESOLVED"
	TypeResolutionConfirmed    = "RESOLUTION_CONFIRMED"
)

// Event is an immutable fact. Once stored it is never mutated or deleted;
// all asset and process state is a projection over the event log.
type Event struct {
	ID              string
	Type            string
	Source          Source
	AssetID         int64
	ProcessID       string // 24-hex process reference, empty if none
	Sender          string
	ProofHash       string // 0x + 64 hex chars, empty if none
	Timestamp       int64  // logical event time in seconds, not storage time
	Validator       string
	TransactionHash string
	BlockNumber     string
	Metadata        map[string]any
	CreatedAt       time.Time
}

// Time returns the logical event time.
func (e *Event) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

// MetadataString returns a string-valued metadata field, or "" if absent.
func (e *Event) MetadataString(key string) string {
	if e.Metadata == nil {
		return ""
	}
	s, _ := e.Metadata[key].(string)
	return s
}

var proofHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// ValidProofHash reports whether s is a 0x-prefixed 32-byte hex string.
func ValidProofHash(s string) bool {
	return proofHashRe.MatchString(s)
}

// ZeroProofHash is the sentinel the contract emits when no proof is attached.
const ZeroProofHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// IsZeroProofHash reports whether h is empty or the all-zero sentinel.
func IsZeroProofHash(h string) bool {
	return h == "" || strings.EqualFold(h, ZeroProofHash)
}
