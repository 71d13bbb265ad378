package screener

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"premarket-screener/internal/logging"
	"premarket-screener/internal/market"
	"premarket-screener/internal/models"
	"premarket-screener/internal/notify"
	"premarket-screener/internal/store"
)

// Options configures a Screener.
type Options struct {
	Window   *Window
	Source   market.DataSource
	Criteria Criteria
	Tracker  *Tracker
	Notifier notify.Notifier
	Journal  store.Journal // optional, nil disables journaling
	Logger   zerolog.Logger

	// SnapshotTimeout bounds each per-symbol fetch so one unresponsive
	// symbol cannot stall a tick. Defaults to 10s.
	SnapshotTimeout time.Duration
	// FetchConcurrency bounds the snapshot fan-out. Defaults to 4.
	FetchConcurrency int
}

// Screener orchestrates one scan: window gate, universe fetch, per-symbol
// filtering, novelty tracking and notification delivery. A single mutex
// serializes scheduled ticks and manual triggers so tracker updates never
// race.
type Screener struct {
	window          *Window
	source          market.DataSource
	criteria        Criteria
	tracker         *Tracker
	notifier        notify.Notifier
	journal         store.Journal
	logger          zerolog.Logger
	snapshotTimeout time.Duration
	concurrency     int

	mu  sync.Mutex
	now func() time.Time
}

// New creates a Screener.
func New(opts Options) *Screener {
	timeout := opts.SnapshotTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	concurrency := opts.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Screener{
		window:          opts.Window,
		source:          opts.Source,
		criteria:        opts.Criteria,
		tracker:         opts.Tracker,
		notifier:        opts.Notifier,
		journal:         opts.Journal,
		logger:          opts.Logger,
		snapshotTimeout: timeout,
		concurrency:     concurrency,
		now:             time.Now,
	}
}

// Run executes one scan if the premarket window is open. Outside the window
// it is a no-op: no provider calls, no criteria, no tracker access.
func (s *Screener) Run(ctx context.Context) error {
	return s.run(ctx, false)
}

// RunBypassingWindow executes one scan regardless of the window gate.
func (s *Screener) RunBypassingWindow(ctx context.Context) error {
	return s.run(ctx, true)
}

func (s *Screener) run(ctx context.Context, bypassWindow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	scanTime := start.In(s.window.Location())

	if !bypassWindow && !s.window.Contains(scanTime) {
		s.logger.Debug().Msg("Premarket window closed, skipping scan")
		return nil
	}

	s.logger.Debug().Str("provider", s.source.Name()).Msg("Pre-market scan triggered")

	universe, err := s.source.ListSymbols(ctx)
	if err != nil {
		// Universe failure is fatal to the tick: report once, touch nothing.
		s.logger.Error().Err(err).Msg("Universe fetch failed")
		if nerr := s.notifier.SendFailure(ctx, "Pre-market scan failed: could not fetch symbol universe."); nerr != nil {
			s.logger.Warn().Err(nerr).Msg("Failure notice delivery failed")
		}
		return err
	}

	eligible := make([]string, 0, len(universe))
	for _, symbol := range universe {
		if models.EligibleSymbol(symbol) {
			eligible = append(eligible, symbol)
		}
	}

	snapshots := s.fetchSnapshots(ctx, eligible)

	var (
		matches      []models.ScreenResult
		matchSymbols []string
		alerted      int
	)
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		if !snap.Valid() {
			s.logger.Debug().Str("symbol", snap.Symbol).Msg("Invalid snapshot, skipping")
			continue
		}

		res, ok := s.criteria.Evaluate(snap)
		if !ok {
			continue
		}

		matches = append(matches, res)
		matchSymbols = append(matchSymbols, res.Symbol)

		if !s.tracker.IsNew(res.Symbol) {
			continue
		}

		if err := s.notifier.SendAlert(ctx, res); err != nil {
			s.logger.Warn().Err(err).Str("symbol", res.Symbol).Msg("Alert delivery failed")
		}
		// Record immediately after the send attempt so a symbol is never
		// alerted without being remembered.
		s.tracker.RecordMatch(res.Symbol)
		alerted++

		if s.journal != nil {
			if err := s.journal.RecordAlert(ctx, res, s.now()); err != nil {
				s.logger.Warn().Err(err).Str("symbol", res.Symbol).Msg("Journal write failed")
			}
		}
	}

	if s.tracker.IsSummaryDue(scanTime.Hour(), scanTime.Minute()) {
		if err := s.notifier.SendSummary(ctx, scanTime, matches); err != nil {
			s.logger.Warn().Err(err).Msg("Summary delivery failed")
		}
		s.tracker.MarkSummarySent(scanTime.Hour())

		if s.journal != nil {
			if err := s.journal.RecordSummary(ctx, s.now(), len(matches)); err != nil {
				s.logger.Warn().Err(err).Msg("Journal write failed")
			}
		}
	}

	s.tracker.AdvanceEpoch(matchSymbols)

	logging.LogScan(s.logger, len(eligible), len(matches), alerted, time.Since(start))
	return nil
}

// fetchSnapshots fans out per-symbol fetches with bounded parallelism and
// buffers results so they can be applied by a single writer afterwards.
// Per-symbol failures are isolated: the slot stays nil and the scan goes on.
func (s *Screener) fetchSnapshots(ctx context.Context, symbols []string) []*models.Snapshot {
	snapshots := make([]*models.Snapshot, len(symbols))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(ctx, s.snapshotTimeout)
			defer cancel()

			snap, err := s.source.GetSnapshot(fetchCtx, symbol)
			if err != nil {
				s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Snapshot fetch failed, skipping")
				return
			}
			snapshots[i] = snap
		}(i, symbol)
	}
	wg.Wait()

	return snapshots
}
