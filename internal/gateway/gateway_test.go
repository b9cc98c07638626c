package gateway_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/weighline/cutlog/internal/gateway"
	"github.com/weighline/cutlog/internal/model"
)

type fakeProvider struct {
	mu      sync.Mutex
	queries []string
	results []model.RemoteFoodRecord
	err     error
	delay   time.Duration
	// delayFor makes only a specific query slow.
	delayFor string
}

func (p *fakeProvider) Search(ctx context.Context, query string) ([]model.RemoteFoodRecord, error) {
	p.mu.Lock()
	p.queries = append(p.queries, query)
	delay := p.delay
	if p.delayFor != "" && query == p.delayFor {
		delay = 50 * time.Millisecond
	}
	results, err := p.results, p.err
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (p *fakeProvider) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.queries))
	copy(out, p.queries)
	return out
}

type fakeBarcode struct {
	record model.RemoteFoodRecord
	found  bool
	err    error
}

func (b *fakeBarcode) LookupBarcode(ctx context.Context, code string) (model.RemoteFoodRecord, bool, error) {
	return b.record, b.found, b.err
}

func record(name string) model.RemoteFoodRecord {
	return model.RemoteFoodRecord{Description: name, CarbsG: 20}
}

func waitFor(t *testing.T, g *gateway.Gateway, cond func(gateway.Snapshot) bool) gateway.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := g.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition never met, last snapshot: %+v", g.Snapshot())
	return gateway.Snapshot{}
}

func settled(snap gateway.Snapshot) bool {
	return snap.Primary.Searched && snap.Secondary.Searched
}

func newGateway(pri, sec *fakeProvider, opts ...gateway.Option) *gateway.Gateway {
	base := []gateway.Option{gateway.WithDebounce(20 * time.Millisecond)}
	return gateway.New(
		gateway.ProviderConfig{Name: "primary", Client: pri, ReportErrors: true},
		gateway.ProviderConfig{Name: "secondary", Client: sec},
		&fakeBarcode{},
		append(base, opts...)...,
	)
}

func TestDebounceCollapsesKeystrokes(t *testing.T) {
	t.Parallel()

	pri := &fakeProvider{results: []model.RemoteFoodRecord{record("Banana")}}
	sec := &fakeProvider{}
	g := newGateway(pri, sec)
	defer g.Close()

	g.SetQuery("ba")
	g.SetQuery("ban")
	g.SetQuery("banana")

	waitFor(t, g, settled)

	if got := pri.seen(); len(got) != 1 || got[0] != "banana" {
		t.Fatalf("primary queries = %v, want exactly [banana]", got)
	}
	if got := sec.seen(); len(got) != 1 || got[0] != "banana" {
		t.Fatalf("secondary queries = %v, want exactly [banana]", got)
	}
}

func TestShortQueryClearsResultsAndCancelsPending(t *testing.T) {
	t.Parallel()

	pri := &fakeProvider{results: []model.RemoteFoodRecord{record("Banana")}}
	sec := &fakeProvider{results: []model.RemoteFoodRecord{record("Bar")}}
	g := newGateway(pri, sec)
	defer g.Close()

	g.SetQuery("banana")
	waitFor(t, g, settled)

	g.SetQuery("ba")
	snap := g.Snapshot()
	if len(snap.Primary.Results) != 0 || len(snap.Secondary.Results) != 0 {
		t.Fatalf("short query must clear results: %+v", snap)
	}
	if snap.Phase != gateway.PhaseIdle {
		t.Fatalf("phase = %q, want idle", snap.Phase)
	}

	// Nothing new should fire for the short query.
	time.Sleep(60 * time.Millisecond)
	if got := pri.seen(); len(got) != 1 {
		t.Fatalf("short query triggered a search: %v", got)
	}
}

func TestProviderIsolationAndSingleErrorNotice(t *testing.T) {
	t.Parallel()

	pri := &fakeProvider{err: errors.New("boom")}
	sec := &fakeProvider{results: []model.RemoteFoodRecord{record("Granola"), record("Bar")}}
	g := newGateway(pri, sec)
	defer g.Close()

	g.SetQuery("granola")
	snap := waitFor(t, g, settled)

	if !snap.Primary.Failed || len(snap.Primary.Results) != 0 {
		t.Fatalf("primary state: %+v", snap.Primary)
	}
	if snap.Secondary.Failed || len(snap.Secondary.Results) != 2 {
		t.Fatalf("secondary must be unaffected by primary failure: %+v", snap.Secondary)
	}
	if snap.ErrorNotice == "" {
		t.Fatal("primary failure must surface a notice")
	}
}

func TestSecondaryFailureIsSilent(t *testing.T) {
	t.Parallel()

	pri := &fakeProvider{results: []model.RemoteFoodRecord{record("Granola")}}
	sec := &fakeProvider{err: errors.New("boom")}
	g := newGateway(pri, sec)
	defer g.Close()

	g.SetQuery("granola")
	snap := waitFor(t, g, settled)

	if !snap.Secondary.Failed {
		t.Fatalf("secondary state: %+v", snap.Secondary)
	}
	if len(snap.Primary.Results) != 1 {
		t.Fatalf("primary state: %+v", snap.Primary)
	}
	if snap.ErrorNotice != "" {
		t.Fatalf("secondary failure must stay silent, got notice %q", snap.ErrorNotice)
	}
}

func TestStaleResponseDoesNotOverwriteNewerCycle(t *testing.T) {
	t.Parallel()

	// "oatmeal" resolves slowly; "granola" resolves fast. The slow
	// stale response lands after the fast current one and must be
	// discarded.
	pri := &fakeProvider{results: []model.RemoteFoodRecord{record("hit")}, delayFor: "oatmeal"}
	sec := &fakeProvider{}
	g := newGateway(pri, sec, gateway.WithDebounce(time.Millisecond))
	defer g.Close()

	g.SetQuery("oatmeal")
	waitFor(t, g, func(s gateway.Snapshot) bool { return s.Phase == gateway.PhaseFetching })

	g.SetQuery("granola")
	snap := waitFor(t, g, func(s gateway.Snapshot) bool {
		return s.Query == "granola" && settled(s)
	})
	if len(snap.Primary.Results) != 1 {
		t.Fatalf("current cycle results missing: %+v", snap.Primary)
	}

	// Let the stale oatmeal response land, then confirm it changed
	// nothing.
	time.Sleep(80 * time.Millisecond)
	after := g.Snapshot()
	if after.Query != "granola" || !after.Primary.Searched || after.Primary.Loading {
		t.Fatalf("stale response overwrote newer state: %+v", after)
	}
}

func TestDanglingTimerAfterCloseIsNoOp(t *testing.T) {
	t.Parallel()

	pri := &fakeProvider{}
	sec := &fakeProvider{}
	g := newGateway(pri, sec)

	g.SetQuery("banana")
	g.Close()

	time.Sleep(60 * time.Millisecond)
	if got := pri.seen(); len(got) != 0 {
		t.Fatalf("timer fired after close: %v", got)
	}
}

func TestOnUpdateNotifies(t *testing.T) {
	t.Parallel()

	var updates atomic.Int32
	pri := &fakeProvider{results: []model.RemoteFoodRecord{record("Banana")}}
	sec := &fakeProvider{}
	g := newGateway(pri, sec, gateway.WithOnUpdate(func(gateway.Snapshot) {
		updates.Add(1)
	}))
	defer g.Close()

	g.SetQuery("banana")
	waitFor(t, g, settled)
	if updates.Load() < 3 {
		t.Fatalf("expected debounce + fire + resolution updates, got %d", updates.Load())
	}
}

func TestSearchNowBypassesDebounce(t *testing.T) {
	t.Parallel()

	pri := &fakeProvider{results: []model.RemoteFoodRecord{record("Banana")}}
	sec := &fakeProvider{err: errors.New("down")}
	g := newGateway(pri, sec, gateway.WithDebounce(time.Hour))
	defer g.Close()

	snap := g.SearchNow(context.Background(), "banana")
	if !settled(snap) {
		t.Fatalf("SearchNow did not settle: %+v", snap)
	}
	if len(snap.Primary.Results) != 1 || !snap.Secondary.Failed {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.ErrorNotice != "" {
		t.Fatalf("silent secondary failure surfaced: %q", snap.ErrorNotice)
	}
}

func TestBarcodeMissIsDistinctFromFailure(t *testing.T) {
	t.Parallel()

	miss := gateway.New(
		gateway.ProviderConfig{Name: "primary", Client: &fakeProvider{}, ReportErrors: true},
		gateway.ProviderConfig{Name: "secondary", Client: &fakeProvider{}},
		&fakeBarcode{found: false},
	)
	defer miss.Close()
	_, found, err := miss.LookupBarcode(context.Background(), "012345678905")
	if err != nil || found {
		t.Fatalf("miss: found=%v err=%v", found, err)
	}

	fail := gateway.New(
		gateway.ProviderConfig{Name: "primary", Client: &fakeProvider{}, ReportErrors: true},
		gateway.ProviderConfig{Name: "secondary", Client: &fakeProvider{}},
		&fakeBarcode{err: errors.New("timeout")},
	)
	defer fail.Close()
	_, _, err = fail.LookupBarcode(context.Background(), "012345678905")
	if err == nil {
		t.Fatal("provider failure must be an error, not a miss")
	}
}
