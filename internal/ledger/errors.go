package ledger

import "errors"

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrSelfMessage    = errors.New("cannot send message to yourself")
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrEmptyGroupName = errors.New("group name cannot be empty")
	ErrEmptyMembers   = errors.New("group must have at least one member")
	ErrInvalidGroupID = errors.New("invalid group id")
	ErrNotMember      = errors.New("not a member of this group")
)
