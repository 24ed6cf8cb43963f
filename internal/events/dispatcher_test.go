package events

import (
	"encoding/json"
	"testing"

	"chainchat-server/internal/hub"
	"chainchat-server/internal/identity"
	"chainchat-server/internal/model"
)

type recordingWriter struct {
	messages [][]byte
}

func (w *recordingWriter) Write(message []byte) error {
	w.messages = append(w.messages, message)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func addr(b byte) identity.Address {
	var a identity.Address
	a[19] = b
	return a
}

func connect(h *hub.Hub, a identity.Address) *recordingWriter {
	w := &recordingWriter{}
	h.Register(&hub.Connection{Addr: a, Writer: w})
	return w
}

func TestMessageSent_ReachesBothParties(t *testing.T) {
	h := hub.New()
	d := NewDispatcher(h)
	sender, receiver, bystander := connect(h, addr(1)), connect(h, addr(2)), connect(h, addr(3))

	d.MessageSent(model.Message{Sender: addr(1), Receiver: addr(2), Content: "hi", Timestamp: 100})

	if len(sender.messages) != 1 || len(receiver.messages) != 1 {
		t.Fatalf("expected both parties notified, got %d/%d", len(sender.messages), len(receiver.messages))
	}
	if len(bystander.messages) != 0 {
		t.Fatalf("bystander must not see direct messages")
	}

	var env envelope
	if err := json.Unmarshal(sender.messages[0], &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != "update" || env.Event != "message-sent" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestGroupMessageSent_MembershipFiltered(t *testing.T) {
	h := hub.New()
	d := NewDispatcher(h)
	member, outsider := connect(h, addr(1)), connect(h, addr(9))

	group := model.Group{ID: 1, Members: []identity.Address{addr(1), addr(2)}}
	d.GroupMessageSent(group, model.Message{Sender: addr(2), Content: "hello", Timestamp: 100})

	if len(member.messages) != 1 {
		t.Fatalf("expected member notified, got %d", len(member.messages))
	}
	if len(outsider.messages) != 0 {
		t.Fatalf("non-members must not see group events")
	}
}

func TestGroupMessageSent_MarksOracleAuthor(t *testing.T) {
	h := hub.New()
	d := NewDispatcher(h)
	member := connect(h, addr(1))

	group := model.Group{ID: 1, Members: []identity.Address{addr(1)}}
	d.GroupMessageSent(group, model.Message{Sender: identity.Zero, Content: "BTC/USD: 3500.00"})

	var env struct {
		Body struct {
			Oracle bool `json:"oracle"`
		} `json:"body"`
	}
	if err := json.Unmarshal(member.messages[0], &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.Body.Oracle {
		t.Fatalf("expected oracle flag on system-authored message")
	}
}

type staticMembers struct {
	group model.Group
}

func (s staticMembers) GroupDetails(uint64) (model.Group, error) { return s.group, nil }

func TestOraclePricesPosted_UsesMemberSource(t *testing.T) {
	h := hub.New()
	d := NewDispatcher(h)
	member, outsider := connect(h, addr(1)), connect(h, addr(9))

	// Without a member source the event is dropped rather than leaked.
	d.OraclePricesPosted(1, 100)
	if len(member.messages) != 0 {
		t.Fatalf("expected no delivery without a member source")
	}

	d.SetMemberSource(staticMembers{group: model.Group{ID: 1, Members: []identity.Address{addr(1)}}})
	d.OraclePricesPosted(1, 100)
	if len(member.messages) != 1 {
		t.Fatalf("expected member notified, got %d", len(member.messages))
	}
	if len(outsider.messages) != 0 {
		t.Fatalf("non-members must not see oracle events")
	}
}

func TestUserRegistered_IsPublic(t *testing.T) {
	h := hub.New()
	d := NewDispatcher(h)
	w1, w2 := connect(h, addr(1)), connect(h, addr(2))

	d.UserRegistered(model.UserProfile{Address: addr(3), Name: "carol.eth"})
	if len(w1.messages) != 1 || len(w2.messages) != 1 {
		t.Fatalf("registry events are public, got %d/%d", len(w1.messages), len(w2.messages))
	}
}

func TestSend_DeduplicatesTargets(t *testing.T) {
	h := hub.New()
	d := NewDispatcher(h)
	w := connect(h, addr(1))

	group := model.Group{ID: 1, Members: []identity.Address{addr(1), addr(1)}}
	d.GroupCreated(group)
	if len(w.messages) != 1 {
		t.Fatalf("expected one delivery per identity, got %d", len(w.messages))
	}
}
