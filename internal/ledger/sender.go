package ledger

import "chainchat-server/internal/identity"

// Sender tags who is writing into a group log. Regular users are subject to
// the membership check; the system sender is the automation controller's
// synthetic identity and is implicitly authorized. Its messages record the
// zero address as author.
type Sender struct {
	addr   identity.Address
	system bool
}

// System is the synthetic oracle/automation sender.
var System = Sender{system: true}

func User(addr identity.Address) Sender {
	return Sender{addr: addr}
}

func (s Sender) IsSystem() bool { return s.system }

// Address returns the author address recorded on messages: the user's address,
// or the zero address for the system sender.
func (s Sender) Address() identity.Address {
	if s.system {
		return identity.Zero
	}
	return s.addr
}

// IsOracleMessage reports whether a message author is the reserved system
// identity.
func IsOracleMessage(sender identity.Address) bool {
	return sender.IsZero()
}
