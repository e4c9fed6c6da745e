// Package asset defines the registered asset entity projected from the
// on-chain registry's event stream.
package asset

import (
	"regexp"
	"time"
)

// Asset mirrors an on-chain registered asset. The numeric ID is assigned by
// the registry contract; rows here are a projection over CREATED and
// proof-bearing events plus owner-edited display metadata.
type Asset struct {
	ID              int64
	Creator         string
	Title           string
	Description     string
	Category        string
	Tags            []string
	URL             string
	LatestProofHash string // last processed proof, not necessarily the newest on chain
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Metadata is the owner-editable display portion of an asset. It is set
// through the API, never by the event projector.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
}

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func ValidAddress(s string) bool {
	return addressRe.MatchString(s)
}
