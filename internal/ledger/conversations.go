package ledger

import (
	"github.com/google/uuid"

	"chainchat-server/internal/identity"
	"chainchat-server/internal/model"
)

// SendMessage appends a direct message to the conversation between sender and
// receiver. Validation happens before any state mutation.
func (l *Ledger) SendMessage(sender, receiver identity.Address, content string) (model.Message, error) {
	if !identity.Valid(sender) || !identity.Valid(receiver) {
		return model.Message{}, ErrInvalidAddress
	}
	if sender == receiver {
		return model.Message{}, ErrSelfMessage
	}
	if content == "" {
		return model.Message{}, ErrEmptyContent
	}

	msg := model.Message{
		ID:       uuid.NewString(),
		Sender:   sender,
		Receiver: receiver,
		Content:  content,
	}

	l.mu.Lock()
	msg.Timestamp = l.timestamp()
	key := ConversationKey(sender, receiver)
	l.conversations[key] = append(l.conversations[key], msg)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persistSnapshot(snapshot)
	l.notifier.MessageSent(msg)
	return msg, nil
}

// Conversation returns the direct-message log for the unordered pair (a, b)
// in insertion order. A pair with no history yields an empty slice, not an
// error, and the result is identical regardless of argument order.
func (l *Ledger) Conversation(a, b identity.Address) []model.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return copyMessages(l.conversations[ConversationKey(a, b)])
}
