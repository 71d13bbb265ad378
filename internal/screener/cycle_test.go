package screener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"premarket-screener/internal/models"
)

type fakeSource struct {
	mu        sync.Mutex
	universe  []string
	listErr   error
	snapshots map[string]*models.Snapshot
	snapErrs  map[string]error
	listCalls int
	fetched   []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) ListSymbols(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.universe, nil
}

func (f *fakeSource) GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, symbol)
	if err, ok := f.snapErrs[symbol]; ok {
		return nil, err
	}
	return f.snapshots[symbol], nil
}

func (f *fakeSource) fetchedSymbols() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.fetched))
	copy(out, f.fetched)
	return out
}

type summaryCall struct {
	at      time.Time
	matches []models.ScreenResult
}

type fakeNotifier struct {
	mu        sync.Mutex
	alerts    []models.ScreenResult
	summaries []summaryCall
	failures  []string
	alertErr  error
}

func (f *fakeNotifier) SendAlert(ctx context.Context, res models.ScreenResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, res)
	return f.alertErr
}

func (f *fakeNotifier) SendSummary(ctx context.Context, at time.Time, matches []models.ScreenResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, summaryCall{at: at, matches: matches})
	return nil
}

func (f *fakeNotifier) SendFailure(ctx context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, message)
	return nil
}

func matchingSnapshot(symbol string) *models.Snapshot {
	rv := 3.0
	return &models.Snapshot{
		Symbol:            symbol,
		CurrentPrice:      3.00,
		PreviousClose:     2.50,
		Volume:            150000,
		MarketCapMillions: 50,
		RelativeVolume:    &rv,
	}
}

func newTestScreener(src *fakeSource, n *fakeNotifier, tr *Tracker) *Screener {
	s := New(Options{
		Window:   NewWindow("America/New_York", 4, 9),
		Source:   src,
		Criteria: DefaultCriteria(),
		Tracker:  tr,
		Notifier: n,
		Logger:   zerolog.Nop(),
	})
	return s
}

// scanAt pins the screener's clock to an Eastern wall-clock time.
func scanAt(s *Screener, hour, minute int) {
	at := time.Date(2024, 3, 5, hour, minute, 0, 0, s.window.Location())
	s.now = func() time.Time { return at }
}

func TestRunOutsideWindowIsNoOp(t *testing.T) {
	src := &fakeSource{universe: []string{"SNDL"}}
	n := &fakeNotifier{}
	s := newTestScreener(src, n, NewTracker(EpochMonotonic, 10))
	scanAt(s, 10, 30)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if src.listCalls != 0 {
		t.Errorf("closed window must not call the provider, got %d calls", src.listCalls)
	}
	if len(n.alerts)+len(n.summaries)+len(n.failures) != 0 {
		t.Error("closed window must not notify")
	}
}

func TestRunUniverseFailure(t *testing.T) {
	src := &fakeSource{listErr: errors.New("rate limited")}
	n := &fakeNotifier{}
	tr := NewTracker(EpochMonotonic, 10)
	s := newTestScreener(src, n, tr)
	scanAt(s, 7, 30)

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("Run() must surface the universe error")
	}
	if len(n.failures) != 1 {
		t.Fatalf("want exactly one failure notice, got %d", len(n.failures))
	}
	if len(n.alerts) != 0 || len(n.summaries) != 0 {
		t.Error("a failed tick must not alert or summarize")
	}
	if tr.KnownCount() != 0 {
		t.Error("a failed tick must leave the tracker untouched")
	}
}

func TestRunAlertsAndDeduplicates(t *testing.T) {
	src := &fakeSource{
		universe: []string{"SNDL", "BRK.A", "QUIET"},
		snapshots: map[string]*models.Snapshot{
			"SNDL": matchingSnapshot("SNDL"),
			"QUIET": {
				Symbol: "QUIET", CurrentPrice: 3.00, PreviousClose: 2.90,
				Volume: 150000, MarketCapMillions: 50,
			},
		},
	}
	n := &fakeNotifier{}
	tr := NewTracker(EpochMonotonic, 10)
	s := newTestScreener(src, n, tr)
	scanAt(s, 7, 30)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(n.alerts) != 1 || n.alerts[0].Symbol != "SNDL" {
		t.Fatalf("want one SNDL alert, got %+v", n.alerts)
	}
	for _, sym := range src.fetchedSymbols() {
		if sym == "BRK.A" {
			t.Error("dotted symbols must never be fetched")
		}
	}

	// Second scan in the same epoch: SNDL still matches but must not re-alert.
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("second Run() = %v", err)
	}
	if len(n.alerts) != 1 {
		t.Errorf("monotonic epoch must suppress repeat alerts, got %d", len(n.alerts))
	}
}

func TestRunRollingPolicyReAlerts(t *testing.T) {
	src := &fakeSource{
		universe:  []string{"SNDL"},
		snapshots: map[string]*models.Snapshot{"SNDL": matchingSnapshot("SNDL")},
	}
	n := &fakeNotifier{}
	s := newTestScreener(src, n, NewTracker(EpochRolling, 10))
	scanAt(s, 7, 30)

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// SNDL drops below the gap threshold for one scan, then recovers.
	src.mu.Lock()
	src.snapshots["SNDL"].PreviousClose = 2.90
	src.mu.Unlock()
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	src.snapshots["SNDL"].PreviousClose = 2.50
	src.mu.Unlock()
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(n.alerts) != 2 {
		t.Errorf("rolling epoch must re-alert after a lapse, got %d alerts", len(n.alerts))
	}
}

func TestRunAlertRecordedEvenWhenDeliveryFails(t *testing.T) {
	src := &fakeSource{
		universe:  []string{"SNDL"},
		snapshots: map[string]*models.Snapshot{"SNDL": matchingSnapshot("SNDL")},
	}
	n := &fakeNotifier{alertErr: errors.New("telegram down")}
	tr := NewTracker(EpochMonotonic, 10)
	s := newTestScreener(src, n, tr)
	scanAt(s, 7, 30)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("delivery failure must not fail the tick: %v", err)
	}
	if tr.IsNew("SNDL") {
		t.Error("symbol must be remembered after a failed delivery attempt")
	}
}

func TestRunSummaryOncePerHour(t *testing.T) {
	src := &fakeSource{
		universe:  []string{"SNDL"},
		snapshots: map[string]*models.Snapshot{"SNDL": matchingSnapshot("SNDL")},
	}
	n := &fakeNotifier{}
	s := newTestScreener(src, n, NewTracker(EpochMonotonic, 10))

	scanAt(s, 7, 3)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(n.summaries) != 1 {
		t.Fatalf("want one summary at 07:03, got %d", len(n.summaries))
	}
	if len(n.summaries[0].matches) != 1 {
		t.Errorf("summary must include the scan's full match set, got %d", len(n.summaries[0].matches))
	}

	scanAt(s, 7, 8)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(n.summaries) != 1 {
		t.Error("same hour must not produce a second summary")
	}

	scanAt(s, 8, 4)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(n.summaries) != 2 {
		t.Errorf("new hour inside the window must produce a summary, got %d", len(n.summaries))
	}
}

func TestRunSummaryWithNoMatches(t *testing.T) {
	src := &fakeSource{universe: []string{"QUIET"}, snapshots: map[string]*models.Snapshot{
		"QUIET": {Symbol: "QUIET", CurrentPrice: 3.00, PreviousClose: 2.90, Volume: 150000, MarketCapMillions: 50},
	}}
	n := &fakeNotifier{}
	s := newTestScreener(src, n, NewTracker(EpochMonotonic, 10))
	scanAt(s, 7, 3)

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(n.summaries) != 1 {
		t.Fatalf("empty scans still summarize, got %d summaries", len(n.summaries))
	}
	if len(n.summaries[0].matches) != 0 {
		t.Errorf("want empty match set, got %d", len(n.summaries[0].matches))
	}
}

func TestRunSkipsPerSymbolFailures(t *testing.T) {
	src := &fakeSource{
		universe: []string{"SNDL", "BROKEN"},
		snapshots: map[string]*models.Snapshot{
			"SNDL": matchingSnapshot("SNDL"),
		},
		snapErrs: map[string]error{"BROKEN": errors.New("quote 500")},
	}
	n := &fakeNotifier{}
	s := newTestScreener(src, n, NewTracker(EpochMonotonic, 10))
	scanAt(s, 7, 30)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("per-symbol failure must not fail the tick: %v", err)
	}
	if len(n.alerts) != 1 || n.alerts[0].Symbol != "SNDL" {
		t.Errorf("healthy symbols must still alert, got %+v", n.alerts)
	}
	if len(n.failures) != 0 {
		t.Error("per-symbol failures must not raise a failure notice")
	}
}

func TestRunBypassingWindow(t *testing.T) {
	src := &fakeSource{
		universe:  []string{"SNDL"},
		snapshots: map[string]*models.Snapshot{"SNDL": matchingSnapshot("SNDL")},
	}
	n := &fakeNotifier{}
	s := newTestScreener(src, n, NewTracker(EpochMonotonic, 10))
	scanAt(s, 14, 0)

	if err := s.RunBypassingWindow(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(n.alerts) != 1 {
		t.Errorf("forced scan must run outside the window, got %d alerts", len(n.alerts))
	}
}
