package automation

import (
	"context"
	"sync"
	"time"

	"chainchat-server/internal/ledger"
	"chainchat-server/internal/oracle"
)

// PriceSource is the read-only quote dependency; *oracle.Client satisfies it.
type PriceSource interface {
	LatestPrice(ctx context.Context, feed string) (oracle.Quote, error)
}

// Notifier is told after each successful upkeep execution.
type Notifier interface {
	OraclePricesPosted(groupID uint64, timestamp int64)
}

type Config struct {
	Interval       time.Duration
	DefaultGroupID uint64
	Feeds          []string
}

// Controller runs the two-phase upkeep cycle: CheckUpkeep is a side-effect
// free readiness probe for external schedulers; PerformUpkeep re-validates,
// fetches quotes, posts one oracle message into the default group and
// advances the timestamp as a single atomic unit. A single mutex serializes
// executions, so racing schedulers cannot double-post.
type Controller struct {
	mu sync.Mutex

	ledger *ledger.Ledger
	source PriceSource

	interval       time.Duration
	defaultGroupID uint64
	feeds          []string

	lastTimestamp int64 // unix seconds, strictly non-decreasing

	notifier Notifier
	now      func() time.Time
}

type Options struct {
	Notifier Notifier
	Now      func() time.Time

	// LastTimestamp seeds the gate, e.g. from a restored snapshot. Zero means
	// upkeep is due as soon as a group exists.
	LastTimestamp int64
}

func New(l *ledger.Ledger, source PriceSource, cfg Config) *Controller {
	return NewWithOptions(l, source, cfg, Options{})
}

func NewWithOptions(l *ledger.Ledger, source PriceSource, cfg Config, opts Options) *Controller {
	c := &Controller{
		ledger:         l,
		source:         source,
		interval:       cfg.Interval,
		defaultGroupID: cfg.DefaultGroupID,
		feeds:          cfg.Feeds,
		lastTimestamp:  opts.LastTimestamp,
		notifier:       opts.Notifier,
		now:            opts.Now,
	}
	if c.defaultGroupID == 0 {
		c.defaultGroupID = 1
	}
	if c.notifier == nil {
		c.notifier = noopNotifier{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Controller) intervalSeconds() int64 {
	return int64(c.interval / time.Second)
}

// CheckUpkeep reports whether the interval has elapsed and at least one group
// exists. It never mutates state and may be polled arbitrarily often. The
// opaque input and output mirror the scheduler contract; both are unused here.
func (c *Controller) CheckUpkeep(_ []byte) (bool, []byte) {
	c.mu.Lock()
	last := c.lastTimestamp
	c.mu.Unlock()

	needed := c.now().Unix()-last >= c.intervalSeconds() && c.ledger.TotalGroups() > 0
	return needed, nil
}

// PerformUpkeep re-validates the upkeep condition and, if it still holds,
// posts a formatted quote for every configured feed into the default group as
// the system sender. A condition that no longer holds is a silent no-op, which
// makes redundant invocation by racing schedulers harmless. All quotes are
// fetched before anything is written: a gateway failure aborts cleanly with
// no partial message and no timestamp advance.
func (c *Controller) PerformUpkeep(ctx context.Context, _ []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().Unix()
	if now-c.lastTimestamp < c.intervalSeconds() || c.ledger.TotalGroups() == 0 {
		return nil
	}

	quotes := make([]oracle.Quote, 0, len(c.feeds))
	for _, feed := range c.feeds {
		quote, err := c.source.LatestPrice(ctx, feed)
		if err != nil {
			return err
		}
		quotes = append(quotes, quote)
	}

	if _, err := c.ledger.SendGroupMessage(ledger.System, c.defaultGroupID, formatQuotes(quotes)); err != nil {
		return err
	}

	c.lastTimestamp = now
	c.notifier.OraclePricesPosted(c.defaultGroupID, now)
	return nil
}

type Status struct {
	IntervalSeconds int64
	LastTimestamp   int64
	DefaultGroupID  uint64
	TotalGroups     int
	UpkeepNeeded    bool
}

func (c *Controller) Status() Status {
	needed, _ := c.CheckUpkeep(nil)

	c.mu.Lock()
	last := c.lastTimestamp
	c.mu.Unlock()

	return Status{
		IntervalSeconds: c.intervalSeconds(),
		LastTimestamp:   last,
		DefaultGroupID:  c.defaultGroupID,
		TotalGroups:     c.ledger.TotalGroups(),
		UpkeepNeeded:    needed,
	}
}

type noopNotifier struct{}

func (noopNotifier) OraclePricesPosted(uint64, int64) {}
