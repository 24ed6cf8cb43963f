package registry

import (
	"errors"
	"sync"
	"time"

	"chainchat-server/internal/identity"
	"chainchat-server/internal/model"
)

var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrAlreadyRegistered = errors.New("user is already registered")
	ErrNotRegistered     = errors.New("user is not registered")
	ErrInvalidAddress    = errors.New("invalid address")
)

// Notifier receives registry change notifications. Profiles are public, so
// these are fanned out to every connected client.
type Notifier interface {
	UserRegistered(profile model.UserProfile)
	UserDeleted(addr identity.Address)
}

// Registry holds user profiles: a display name and an avatar hash per
// address. Registration is one-shot; a user can delete their own profile.
type Registry struct {
	mu sync.RWMutex

	usersByAddress map[identity.Address]model.UserProfile
	order          []identity.Address

	notifier Notifier
	now      func() time.Time
}

type Options struct {
	Notifier Notifier
	Now      func() time.Time
}

func New() *Registry {
	return NewWithOptions(Options{})
}

func NewWithOptions(opts Options) *Registry {
	r := &Registry{
		usersByAddress: make(map[identity.Address]model.UserProfile),
		notifier:       opts.Notifier,
		now:            opts.Now,
	}
	if r.notifier == nil {
		r.notifier = noopNotifier{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

func (r *Registry) Register(addr identity.Address, name, avatarHash string) (model.UserProfile, error) {
	if !identity.Valid(addr) {
		return model.UserProfile{}, ErrInvalidAddress
	}
	if name == "" {
		return model.UserProfile{}, ErrEmptyName
	}

	r.mu.Lock()
	if _, ok := r.usersByAddress[addr]; ok {
		r.mu.Unlock()
		return model.UserProfile{}, ErrAlreadyRegistered
	}
	profile := model.UserProfile{
		Address:      addr,
		Name:         name,
		AvatarHash:   avatarHash,
		RegisteredAt: r.now().Unix(),
	}
	r.usersByAddress[addr] = profile
	r.order = append(r.order, addr)
	r.mu.Unlock()

	r.notifier.UserRegistered(profile)
	return profile, nil
}

func (r *Registry) Get(addr identity.Address) (model.UserProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.usersByAddress[addr]
	return profile, ok
}

func (r *Registry) IsRegistered(addr identity.Address) bool {
	_, ok := r.Get(addr)
	return ok
}

// List returns all registered profiles in registration order.
func (r *Registry) List() []model.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.UserProfile, 0, len(r.order))
	for _, addr := range r.order {
		if profile, ok := r.usersByAddress[addr]; ok {
			result = append(result, profile)
		}
	}
	return result
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.usersByAddress)
}

func (r *Registry) Delete(addr identity.Address) error {
	r.mu.Lock()
	if _, ok := r.usersByAddress[addr]; !ok {
		r.mu.Unlock()
		return ErrNotRegistered
	}
	delete(r.usersByAddress, addr)
	for i, a := range r.order {
		if a == addr {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notifier.UserDeleted(addr)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) UserRegistered(model.UserProfile) {}
func (noopNotifier) UserDeleted(identity.Address)     {}
