package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Address is a fixed-width 20-byte account identifier. The all-zero value is
// reserved for the system/oracle sender and is never a valid user participant.
type Address [20]byte

var Zero Address

var ErrInvalid = errors.New("invalid address")

// Parse decodes a hex address with an optional 0x prefix.
func Parse(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != 2*len(Address{}) {
		return Address{}, ErrInvalid
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, ErrInvalid
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// FromPublicKey derives the address for a raw public key: the first 20 bytes
// of its SHA-256 digest.
func FromPublicKey(publicKey []byte) Address {
	sum := sha256.Sum256(publicKey)
	var a Address
	copy(a[:], sum[:len(a)])
	return a
}

func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string { return a.Hex() }

func (a Address) IsZero() bool { return a == Zero }

// MarshalText encodes the address as 0x-prefixed hex so JSON snapshots and
// map keys stay human-readable.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Valid reports whether a can stand for a real participant. The zero address
// is rejected everywhere a user-supplied sender, receiver or member appears.
func Valid(a Address) bool { return !a.IsZero() }
