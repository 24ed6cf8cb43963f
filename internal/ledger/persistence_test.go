package ledger

import (
	"path/filepath"
	"testing"

	"chainchat-server/internal/identity"
)

func TestLedgerPersistence_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	alice, bob := addr(1), addr(2)

	l := NewWithOptions(Options{StateFile: path})
	if _, err := l.SendMessage(alice, bob, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	id, err := l.CreateGroup(alice, "Test", "QmHash", []identity.Address{bob})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := l.SendGroupMessage(User(bob), id, "hi all"); err != nil {
		t.Fatalf("SendGroupMessage: %v", err)
	}

	reloaded := NewWithOptions(Options{StateFile: path})
	if reloaded.TotalGroups() != 1 {
		t.Fatalf("expected 1 group after reload, got %d", reloaded.TotalGroups())
	}
	conv := reloaded.Conversation(bob, alice)
	if len(conv) != 1 || conv[0].Content != "hello" {
		t.Fatalf("unexpected conversation after reload: %v", conv)
	}
	details, err := reloaded.GroupDetails(id)
	if err != nil {
		t.Fatalf("GroupDetails: %v", err)
	}
	if details.Name != "Test" || details.AvatarHash != "QmHash" || len(details.Members) != 2 {
		t.Fatalf("unexpected group after reload: %+v", details)
	}
	msgs, err := reloaded.GroupConversation(alice, id)
	if err != nil {
		t.Fatalf("GroupConversation: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "hi all" {
		t.Fatalf("unexpected group log after reload: %v", msgs)
	}

	// Ids keep growing from the persisted counter.
	next, err := reloaded.CreateGroup(alice, "Second", "", []identity.Address{bob})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if next != 2 {
		t.Fatalf("expected next id 2, got %d", next)
	}
}

func TestLedgerPersistence_MissingFileIsFine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	l := NewWithOptions(Options{StateFile: path})
	if l.TotalGroups() != 0 {
		t.Fatalf("expected empty ledger")
	}
}
