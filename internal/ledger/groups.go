package ledger

import (
	"github.com/google/uuid"

	"chainchat-server/internal/identity"
	"chainchat-server/internal/model"
)

// CreateGroup registers a new group and returns its 1-based id. The canonical
// member set is the creator plus the supplied members, deduplicated; the
// creator is always a member. Membership is immutable after creation.
func (l *Ledger) CreateGroup(creator identity.Address, name, avatarHash string, members []identity.Address) (uint64, error) {
	if !identity.Valid(creator) {
		return 0, ErrInvalidAddress
	}
	if name == "" {
		return 0, ErrEmptyGroupName
	}
	if len(members) == 0 {
		return 0, ErrEmptyMembers
	}
	for _, m := range members {
		if !identity.Valid(m) {
			return 0, ErrInvalidAddress
		}
	}

	canonical := make([]identity.Address, 0, len(members)+1)
	seen := make(map[identity.Address]struct{}, len(members)+1)
	canonical = append(canonical, creator)
	seen[creator] = struct{}{}
	for _, m := range members {
		if _, ok := seen[m]; ok {
			continue
		}
		canonical = append(canonical, m)
		seen[m] = struct{}{}
	}

	l.mu.Lock()
	l.groupCounter++
	group := model.Group{
		ID:         l.groupCounter,
		Name:       name,
		AvatarHash: avatarHash,
		Members:    canonical,
		CreatedBy:  creator,
		CreatedAt:  l.timestamp(),
	}
	l.groups[group.ID] = group
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persistSnapshot(snapshot)
	l.notifier.GroupCreated(copyGroup(group))
	return group.ID, nil
}

// SendGroupMessage appends a message to a group's log. User senders must be
// members; the system sender is implicitly authorized and recorded as the
// zero address.
func (l *Ledger) SendGroupMessage(sender Sender, groupID uint64, content string) (model.Message, error) {
	if !sender.IsSystem() && !identity.Valid(sender.Address()) {
		return model.Message{}, ErrInvalidAddress
	}

	msg := model.Message{
		ID:       uuid.NewString(),
		Sender:   sender.Address(),
		Receiver: identity.Zero,
		Content:  content,
	}

	l.mu.Lock()
	group, ok := l.groups[groupID]
	if !ok {
		l.mu.Unlock()
		return model.Message{}, ErrInvalidGroupID
	}
	if !sender.IsSystem() && !memberOf(group, sender.Address()) {
		l.mu.Unlock()
		return model.Message{}, ErrNotMember
	}
	if content == "" {
		l.mu.Unlock()
		return model.Message{}, ErrEmptyContent
	}

	msg.Timestamp = l.timestamp()
	l.groupMessages[groupID] = append(l.groupMessages[groupID], msg)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persistSnapshot(snapshot)
	l.notifier.GroupMessageSent(copyGroup(group), msg)
	return msg, nil
}

// GroupConversation returns a group's log in insertion order. Read access
// mirrors write access: the requester must be a member.
func (l *Ledger) GroupConversation(requester identity.Address, groupID uint64) ([]model.Message, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	group, ok := l.groups[groupID]
	if !ok {
		return nil, ErrInvalidGroupID
	}
	if !memberOf(group, requester) {
		return nil, ErrNotMember
	}
	return copyMessages(l.groupMessages[groupID]), nil
}

func (l *Ledger) GroupDetails(groupID uint64) (model.Group, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	group, ok := l.groups[groupID]
	if !ok {
		return model.Group{}, ErrInvalidGroupID
	}
	return copyGroup(group), nil
}

// IsGroupMember is a total function: unknown group ids yield false, never an
// error.
func (l *Ledger) IsGroupMember(groupID uint64, addr identity.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	group, ok := l.groups[groupID]
	if !ok {
		return false
	}
	return memberOf(group, addr)
}

func (l *Ledger) TotalGroups() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return int(l.groupCounter)
}

func memberOf(group model.Group, addr identity.Address) bool {
	for _, m := range group.Members {
		if m == addr {
			return true
		}
	}
	return false
}

func copyGroup(group model.Group) model.Group {
	out := group
	out.Members = make([]identity.Address, len(group.Members))
	copy(out.Members, group.Members)
	return out
}
