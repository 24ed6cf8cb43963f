package model

import "chainchat-server/internal/identity"

type Message struct {
	ID        string
	Sender    identity.Address
	Receiver  identity.Address
	Content   string
	Timestamp int64
}

type Group struct {
	ID         uint64
	Name       string
	AvatarHash string
	Members    []identity.Address
	CreatedBy  identity.Address
	CreatedAt  int64
}

type UserProfile struct {
	Address      identity.Address
	Name         string
	AvatarHash   string
	RegisteredAt int64
}
