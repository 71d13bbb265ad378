package screener

import "sync"

// EpochPolicy defines how long the tracker remembers an alerted symbol.
type EpochPolicy string

const (
	// EpochMonotonic: once a symbol is alerted it stays known for the life
	// of the process. AdvanceEpoch never shrinks the known-set.
	EpochMonotonic EpochPolicy = "monotonic"
	// EpochRolling: the known-set is replaced by the current scan's matches
	// at every epoch advance, so a symbol re-alerts after it once fails the
	// criteria and later re-qualifies.
	EpochRolling EpochPolicy = "rolling"
)

// summaryNeverSent marks that no rollup has been emitted yet.
const summaryNeverSent = -1

// Tracker owns the set of symbols already alerted in the current epoch and
// the hour of the last rollup summary. It is the only writer of both.
type Tracker struct {
	mu                   sync.Mutex
	policy               EpochPolicy
	known                map[string]struct{}
	lastSummaryHour      int
	summaryWindowMinutes int
}

// NewTracker creates a tracker with the given epoch policy. A rollup is due
// at most once per distinct hour, within the first summaryWindowMinutes.
func NewTracker(policy EpochPolicy, summaryWindowMinutes int) *Tracker {
	if policy != EpochRolling {
		policy = EpochMonotonic
	}
	return &Tracker{
		policy:               policy,
		known:                make(map[string]struct{}),
		lastSummaryHour:      summaryNeverSent,
		summaryWindowMinutes: summaryWindowMinutes,
	}
}

// IsNew reports whether the symbol has not been alerted in the current epoch.
func (t *Tracker) IsNew(symbol string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, known := t.known[symbol]
	return !known
}

// RecordMatch idempotently marks a symbol as alerted for this epoch.
func (t *Tracker) RecordMatch(symbol string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.known[symbol] = struct{}{}
}

// AdvanceEpoch is called once at the end of every scan with the scan's full
// match set. Under the rolling policy it replaces the known-set; under the
// monotonic policy it is a no-op (RecordMatch already grew the set).
func (t *Tracker) AdvanceEpoch(currentMatches []string) {
	if t.policy != EpochRolling {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	next := make(map[string]struct{}, len(currentMatches))
	for _, s := range currentMatches {
		next[s] = struct{}{}
	}
	t.known = next
}

// KnownCount returns the size of the current known-set.
func (t *Tracker) KnownCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.known)
}

// IsSummaryDue reports whether a rollup should be sent at the given wall
// clock: the hour must differ from the last summary hour and the minute must
// fall within the first N minutes of the hour.
func (t *Tracker) IsSummaryDue(hour, minute int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return hour != t.lastSummaryHour && minute < t.summaryWindowMinutes
}

// MarkSummarySent records the hour of the rollup just sent.
func (t *Tracker) MarkSummarySent(hour int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSummaryHour = hour
}
