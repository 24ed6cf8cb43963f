package events

import (
	"encoding/json"

	"chainchat-server/internal/hub"
	"chainchat-server/internal/identity"
	"chainchat-server/internal/model"
)

// MemberSource resolves a group id to its member set, used when a
// notification arrives with only the id (the upkeep path).
type MemberSource interface {
	GroupDetails(groupID uint64) (model.Group, error)
}

// Dispatcher turns ledger and registry notifications into websocket events.
// Ledger events are membership-filtered: only the parties to a conversation,
// or the members of a group, receive them. Registry events are public.
type Dispatcher struct {
	hub     *hub.Hub
	members MemberSource
}

func NewDispatcher(h *hub.Hub) *Dispatcher {
	return &Dispatcher{hub: h}
}

// SetMemberSource wires the group lookup used by OraclePricesPosted. Set
// after the ledger is constructed; the dispatcher is passed into the ledger
// first.
func (d *Dispatcher) SetMemberSource(src MemberSource) {
	d.members = src
}

type envelope struct {
	Type  string `json:"type"`
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

func (d *Dispatcher) MessageSent(msg model.Message) {
	d.send([]identity.Address{msg.Sender, msg.Receiver}, "message-sent", map[string]any{
		"from":      msg.Sender.Hex(),
		"to":        msg.Receiver.Hex(),
		"content":   msg.Content,
		"timestamp": msg.Timestamp,
	})
}

func (d *Dispatcher) GroupCreated(group model.Group) {
	d.send(group.Members, "group-created", map[string]any{
		"groupId": group.ID,
		"name":    group.Name,
		"creator": group.CreatedBy.Hex(),
	})
}

func (d *Dispatcher) GroupMessageSent(group model.Group, msg model.Message) {
	d.send(group.Members, "group-message-sent", map[string]any{
		"groupId":   group.ID,
		"sender":    msg.Sender.Hex(),
		"content":   msg.Content,
		"timestamp": msg.Timestamp,
		"oracle":    msg.Sender.IsZero(),
	})
}

func (d *Dispatcher) OraclePricesPosted(groupID uint64, timestamp int64) {
	if d.members == nil {
		return
	}
	group, err := d.members.GroupDetails(groupID)
	if err != nil {
		return
	}
	d.send(group.Members, "oracle-prices-posted", map[string]any{
		"groupId":   groupID,
		"timestamp": timestamp,
	})
}

func (d *Dispatcher) UserRegistered(profile model.UserProfile) {
	d.sendAll("user-registered", map[string]any{
		"address":    profile.Address.Hex(),
		"name":       profile.Name,
		"avatarHash": profile.AvatarHash,
	})
}

func (d *Dispatcher) UserDeleted(addr identity.Address) {
	d.sendAll("user-deleted", map[string]any{
		"address": addr.Hex(),
	})
}

func (d *Dispatcher) send(targets []identity.Address, event string, body any) {
	data, err := json.Marshal(envelope{Type: "update", Event: event, Body: body})
	if err != nil {
		return
	}
	seen := make(map[identity.Address]struct{}, len(targets))
	for _, target := range targets {
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		d.hub.Broadcast(target, data)
	}
}

func (d *Dispatcher) sendAll(event string, body any) {
	data, err := json.Marshal(envelope{Type: "update", Event: event, Body: body})
	if err != nil {
		return
	}
	d.hub.BroadcastAll(data)
}
