// Package gateway resolves free-text queries against two independent
// remote nutrition providers, debounced and in parallel, plus an
// immediate barcode path against the primary provider. Each provider
// loads and fails on its own: one provider's failure never cancels or
// empties the other's results.
package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/weighline/cutlog/internal/model"
)

const (
	defaultDebounce = 500 * time.Millisecond
	defaultTimeout  = 15 * time.Second
	minQueryLen     = 3
)

// SearchClient is one remote provider's search surface.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]model.RemoteFoodRecord, error)
}

// BarcodeClient is the barcode surface; only the primary provider
// carries one. A miss is reported through the bool, not as an error.
type BarcodeClient interface {
	LookupBarcode(ctx context.Context, code string) (model.RemoteFoodRecord, bool, error)
}

// ProviderConfig pairs a client with its error-reporting policy. The
// asymmetry (primary reports, secondary fails silently) is deliberate:
// the user experiences one search, so they get at most one error
// notice per cycle.
type ProviderConfig struct {
	Name         string
	Client       SearchClient
	ReportErrors bool
}

// ProviderState is one provider's sub-state within the current search
// cycle.
type ProviderState struct {
	Results  []model.RemoteFoodRecord
	Loading  bool
	Searched bool
	Failed   bool
}

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseDebouncing Phase = "debouncing"
	PhaseFetching   Phase = "fetching"
	PhaseSettled    Phase = "settled"
)

// Snapshot is the externally visible search-session state.
type Snapshot struct {
	Query       string
	Phase       Phase
	Primary     ProviderState
	Secondary   ProviderState
	ErrorNotice string
}

type Option func(*Gateway)

// WithDebounce overrides the quiet period before a query fires.
func WithDebounce(d time.Duration) Option {
	return func(g *Gateway) { g.debounce = d }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithOnUpdate registers a callback invoked after every state change,
// outside the gateway lock.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(g *Gateway) { g.onUpdate = fn }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// Gateway owns one remote-search session.
type Gateway struct {
	primary   ProviderConfig
	secondary ProviderConfig
	barcode   BarcodeClient

	debounce time.Duration
	timeout  time.Duration
	onUpdate func(Snapshot)
	log      *zap.Logger

	mu        sync.Mutex
	query     string
	cycle     uint64
	timer     *time.Timer
	debPend   bool
	priState  ProviderState
	secState  ProviderState
	notice    string
	closed    bool
}

func New(primary, secondary ProviderConfig, barcode BarcodeClient, opts ...Option) *Gateway {
	g := &Gateway{
		primary:   primary,
		secondary: secondary,
		barcode:   barcode,
		debounce:  defaultDebounce,
		timeout:   defaultTimeout,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetQuery feeds one keystroke's worth of input. Queries shorter than
// three characters clear any prior remote results and cancel pending
// work; longer queries restart the single-shot debounce timer.
func (g *Gateway) SetQuery(query string) {
	query = strings.TrimSpace(query)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.query = query
	g.cycle++ // supersede anything in flight
	g.stopTimerLocked()
	g.notice = ""

	if len(query) < minQueryLen {
		g.priState = ProviderState{}
		g.secState = ProviderState{}
		snap := g.snapshotLocked()
		g.mu.Unlock()
		g.notify(snap)
		return
	}

	cycle := g.cycle
	g.debPend = true
	g.timer = time.AfterFunc(g.debounce, func() {
		g.fire(query, cycle)
	})
	snap := g.snapshotLocked()
	g.mu.Unlock()
	g.notify(snap)
}

// fire runs when the debounce window closes. The cycle check makes a
// dangling timer a no-op: by fire time the session may have moved on
// or been closed.
func (g *Gateway) fire(query string, cycle uint64) {
	g.mu.Lock()
	if g.closed || cycle != g.cycle {
		g.mu.Unlock()
		return
	}
	g.debPend = false
	g.priState = ProviderState{Loading: true}
	g.secState = ProviderState{Loading: true}
	snap := g.snapshotLocked()
	g.mu.Unlock()
	g.notify(snap)

	go g.runProvider(&g.primary, query, cycle, true)
	go g.runProvider(&g.secondary, query, cycle, false)
}

// runProvider executes one provider's request and resolves it into the
// session, discarding the result if the cycle has moved on. Discard on
// mismatch is the correctness mechanism; cancellation is only an
// optimization.
func (g *Gateway) runProvider(cfg *ProviderConfig, query string, cycle uint64, primary bool) {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	results, err := cfg.Client.Search(ctx, query)

	g.mu.Lock()
	if g.closed || cycle != g.cycle {
		g.mu.Unlock()
		return
	}
	state := ProviderState{Searched: true}
	if err != nil {
		state.Failed = true
		g.log.Warn("remote food search failed",
			zap.String("provider", cfg.Name),
			zap.String("query", query),
			zap.Error(err),
		)
		if cfg.ReportErrors && g.notice == "" {
			g.notice = "food search is unavailable right now"
		}
	} else {
		state.Results = results
	}
	if primary {
		g.priState = state
	} else {
		g.secState = state
	}
	snap := g.snapshotLocked()
	g.mu.Unlock()
	g.notify(snap)
}

// SearchNow fans out to both providers immediately, bypassing the
// debounce. Same isolation rules; used by the CLI where there is no
// keystroke stream.
func (g *Gateway) SearchNow(ctx context.Context, query string) Snapshot {
	query = strings.TrimSpace(query)

	g.mu.Lock()
	g.query = query
	g.cycle++ // supersede any debounced work
	g.stopTimerLocked()
	g.notice = ""
	if len(query) < minQueryLen {
		g.priState = ProviderState{}
		g.secState = ProviderState{}
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return snap
	}
	cycle := g.cycle
	g.priState = ProviderState{Loading: true}
	g.secState = ProviderState{Loading: true}
	g.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		g.runProviderCtx(ctx, &g.primary, query, cycle, true)
	}()
	go func() {
		defer wg.Done()
		g.runProviderCtx(ctx, &g.secondary, query, cycle, false)
	}()
	wg.Wait()

	return g.Snapshot()
}

func (g *Gateway) runProviderCtx(ctx context.Context, cfg *ProviderConfig, query string, cycle uint64, primary bool) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := cfg.Client.Search(ctx, query)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || cycle != g.cycle {
		return
	}
	state := ProviderState{Searched: true}
	if err != nil {
		state.Failed = true
		g.log.Warn("remote food search failed",
			zap.String("provider", cfg.Name),
			zap.String("query", query),
			zap.Error(err),
		)
		if cfg.ReportErrors && g.notice == "" {
			g.notice = "food search is unavailable right now"
		}
	} else {
		state.Results = results
	}
	if primary {
		g.priState = state
	} else {
		g.secState = state
	}
}

// LookupBarcode is an immediate, non-debounced lookup against the
// primary provider. The bool distinguishes a clean miss ("try
// searching by name") from a provider failure.
func (g *Gateway) LookupBarcode(ctx context.Context, code string) (model.RemoteFoodRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	record, found, err := g.barcode.LookupBarcode(ctx, code)
	if err != nil {
		g.log.Warn("barcode lookup failed", zap.String("code", code), zap.Error(err))
		return model.RemoteFoodRecord{}, false, err
	}
	return record, found, nil
}

// Snapshot returns the current session state.
func (g *Gateway) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Close tears the session down. Any timer or response that arrives
// afterwards is discarded by the cycle/closed checks.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.cycle++
	g.stopTimerLocked()
}

func (g *Gateway) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.debPend = false
}

func (g *Gateway) snapshotLocked() Snapshot {
	snap := Snapshot{
		Query:       g.query,
		Primary:     cloneState(g.priState),
		Secondary:   cloneState(g.secState),
		ErrorNotice: g.notice,
	}
	switch {
	case g.debPend:
		snap.Phase = PhaseDebouncing
	case g.priState.Loading || g.secState.Loading:
		snap.Phase = PhaseFetching
	case g.priState.Searched || g.secState.Searched:
		snap.Phase = PhaseSettled
	default:
		snap.Phase = PhaseIdle
	}
	return snap
}

func cloneState(s ProviderState) ProviderState {
	out := s
	out.Results = make([]model.RemoteFoodRecord, len(s.Results))
	copy(out.Results, s.Results)
	return out
}

func (g *Gateway) notify(snap Snapshot) {
	if g.onUpdate != nil {
		g.onUpdate(snap)
	}
}
