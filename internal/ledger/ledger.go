package ledger

import (
	"sync"
	"time"

	"chainchat-server/internal/model"
)

// Notifier receives a notification after each committed write. Implementations
// decide who gets to see it; the ledger hands over the full group so the
// dispatcher can filter by membership.
type Notifier interface {
	MessageSent(msg model.Message)
	GroupCreated(group model.Group)
	GroupMessageSent(group model.Group, msg model.Message)
}

// Ledger is the append-only message store: direct conversations keyed by the
// sorted-pair conversation key, plus groups with their own logs. Every public
// operation is a single atomic transition under one lock; notifications fire
// after the write has committed.
type Ledger struct {
	mu sync.RWMutex

	stateFile string
	persistMu sync.Mutex

	conversations map[Key][]model.Message
	groups        map[uint64]model.Group
	groupMessages map[uint64][]model.Message
	groupCounter  uint64

	notifier Notifier
	now      func() time.Time
}

type Options struct {
	StateFile string
	Notifier  Notifier
	Now       func() time.Time
}

func New() *Ledger {
	return NewWithOptions(Options{})
}

func NewWithOptions(opts Options) *Ledger {
	l := &Ledger{
		stateFile:     opts.StateFile,
		conversations: make(map[Key][]model.Message),
		groups:        make(map[uint64]model.Group),
		groupMessages: make(map[uint64][]model.Message),
		notifier:      opts.Notifier,
		now:           opts.Now,
	}
	if l.notifier == nil {
		l.notifier = noopNotifier{}
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.stateFile != "" {
		l.loadStateFromFile(l.stateFile)
	}
	return l
}

func (l *Ledger) timestamp() int64 {
	return l.now().Unix()
}

type noopNotifier struct{}

func (noopNotifier) MessageSent(model.Message)                   {}
func (noopNotifier) GroupCreated(model.Group)                    {}
func (noopNotifier) GroupMessageSent(model.Group, model.Message) {}

func copyMessages(msgs []model.Message) []model.Message {
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}
