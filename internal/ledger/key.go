package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"chainchat-server/internal/identity"
)

var errInvalidKey = errors.New("invalid conversation key")

// Key identifies the conversation between an unordered pair of addresses.
type Key [32]byte

// ConversationKey derives the key for a pair of addresses. The pair is sorted
// before hashing so ConversationKey(a, b) == ConversationKey(b, a).
func ConversationKey(a, b identity.Address) Key {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	h := sha256.New()
	h.Write(a[:])
	h.Write(b[:])
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

func (k Key) Hex() string {
	return "0x" + hex.EncodeToString(k[:])
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.Hex()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(k) {
		return errInvalidKey
	}
	copy(k[:], raw)
	return nil
}
