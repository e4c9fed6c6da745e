package event

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
)

// A process reference is a 24-hex-character identifier. On chain it travels
// as a uint256 (the hex string read as a base-16 integer); off chain it is
// the process primary key. Zero means "no process".

const procRefLen = 24

var procRefRe = regexp.MustCompile(`^[0-9a-f]{24}$`)

// ValidProcessRef reports whether s is a well-formed process reference.
func ValidProcessRef(s string) bool {
	return procRefRe.MatchString(s)
}

// NewProcessRef generates a fresh random process reference.
func NewProcessRef() string {
	var b [procRefLen / 2]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return hex.EncodeToString(b[:])
}

// ProcessRefToUint converts a process reference to its on-chain uint256 form.
// An empty reference maps to zero.
func ProcessRefToUint(ref string) (*big.Int, error) {
	if ref == "" {
		return new(big.Int), nil
	}
	if !ValidProcessRef(ref) {
		return nil, fmt.Errorf("invalid process reference %q", ref)
	}
	n, ok := new(big.Int).SetString(ref, 16)
	if !ok {
		return nil, fmt.Errorf("invalid process reference %q", ref)
	}
	return n, nil
}

// ProcessRefFromUint restores a process reference from its uint256 form by
// left-padding the hex representation to 24 characters. Zero maps to "".
func ProcessRefFromUint(n *big.Int) string {
	if n == nil || n.Sign() == 0 {
		return ""
	}
	return fmt.Sprintf("%0*x", procRefLen, n)
}
