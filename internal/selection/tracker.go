package selection

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"StarTrade/internal/metrics"
	"StarTrade/internal/model"
	"StarTrade/pkg/logger"
)

// Phase is the lifecycle stage of the current selection.
type Phase string

const (
	Idle    Phase = "idle"
	Loading Phase = "loading"
	Ready   Phase = "ready"
	Failed  Phase = "failed"
)

// Ticket identifies one fetch. Only the ticket of the latest generation may complete.
type Ticket struct {
	Symbol     string `json:"symbol"`
	Generation uint64 `json:"generation"`
}

// State is a point-in-time view of the tracker.
type State struct {
	Symbol     string          `json:"symbol"`
	Phase      Phase           `json:"phase"`
	Generation uint64          `json:"generation"`
	Analysis   *model.Analysis `json:"analysis,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Loader fetches and analyzes one symbol.
type Loader func(ctx context.Context, symbol string) (*model.Analysis, error)

// Tracker owns the selected symbol and the result of its latest fetch.
type Tracker struct {
	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	load     Loader
	inflight sync.WaitGroup
	log      *zap.Logger
}

func NewTracker(load Loader) *Tracker {
	return &Tracker{
		state: State{Phase: Idle},
		load:  load,
		log:   logger.Named("selection"),
	}
}

// Current returns a copy of the tracker state.
func (t *Tracker) Current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Begin starts a new generation for symbol. An empty symbol clears the selection
// and returns the tracker to Idle. Any earlier ticket becomes stale.
func (t *Tracker) Begin(symbol string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.beginLocked(normalize(symbol))
}

func (t *Tracker) beginLocked(symbol string) Ticket {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	gen := t.state.Generation + 1
	phase := Loading
	if symbol == "" {
		phase = Idle
	}
	t.state = State{Symbol: symbol, Phase: phase, Generation: gen}
	return Ticket{Symbol: symbol, Generation: gen}
}

// Complete applies the outcome of the fetch identified by tk. It reports false and
// leaves the state untouched when tk is no longer the current generation.
func (t *Tracker) Complete(tk Ticket, a *model.Analysis, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tk.Generation != t.state.Generation || tk.Symbol != t.state.Symbol || t.state.Phase != Loading {
		metrics.StaleResults.Inc()
		t.log.Debug("discarding stale result",
			zap.String("symbol", tk.Symbol),
			zap.Uint64("generation", tk.Generation),
			zap.Uint64("current", t.state.Generation))
		return false
	}
	if err != nil {
		t.state.Phase = Failed
		t.state.Error = err.Error()
		t.state.Analysis = nil
	} else {
		t.state.Phase = Ready
		t.state.Analysis = a
		t.state.Error = ""
	}
	t.cancel = nil
	return true
}

// Select makes symbol the current selection and loads it in the background.
// Re-selecting the symbol that is already loading or loaded is a no-op; a failed
// symbol is retried.
func (t *Tracker) Select(ctx context.Context, symbol string) Ticket {
	symbol = normalize(symbol)

	t.mu.Lock()
	if symbol == t.state.Symbol && (t.state.Phase == Loading || t.state.Phase == Ready) {
		tk := Ticket{Symbol: symbol, Generation: t.state.Generation}
		t.mu.Unlock()
		return tk
	}
	tk := t.beginLocked(symbol)
	if symbol == "" {
		t.mu.Unlock()
		return tk
	}
	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	t.cancel = cancel
	t.inflight.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.inflight.Done()
		defer cancel()
		a, err := t.load(loadCtx, symbol)
		if !t.Complete(tk, a, err) {
			return
		}
		if err != nil {
			t.log.Warn("selection load failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}()
	return tk
}

// Wait blocks until every background load started by Select has returned.
func (t *Tracker) Wait() {
	t.inflight.Wait()
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
