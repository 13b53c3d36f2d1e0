package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StarTrade/internal/model"
	"StarTrade/internal/notifier"
	"StarTrade/internal/recorder"
	"StarTrade/pkg/logger"
)

// Analyzer fetches and analyzes one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (*model.Analysis, error)
}

// Board lists the symbols the digest covers.
type Board interface {
	Symbols() []string
	Groups() []model.Group
}

// Sender delivers a message with retries.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the digest cron task and bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer Analyzer
	Board    Board
	Notifier Sender // nil disables notifications
	Recorder recorder.Recorder
	Ctx      context.Context
	log      *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an Analyzer, board Board, sender Sender, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Analyzer: an,
		Board:    board,
		Notifier: sender,
		Recorder: rec,
		Ctx:      ctx,
		log:      logger.Named("scheduler"),
		now:      time.Now,
	}
}

// RegisterDigest registers the watchlist digest task.
func (s *Scheduler) RegisterDigest(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, func() { s.RunDigest() }); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunDigest analyzes every board symbol, records the snapshots, and sends the digest.
// It returns the digest text.
func (s *Scheduler) RunDigest() string {
	symbols := s.Board.Symbols()
	s.log.Info("running digest", zap.Int("symbols", len(symbols)))

	var (
		analyses []*model.Analysis
		failures []notifier.DigestFailure
	)
	for _, sym := range symbols {
		if s.Ctx.Err() != nil {
			break
		}
		a, err := s.Analyzer.Analyze(s.Ctx, sym)
		if err != nil {
			s.log.Error("digest analyze failed", zap.String("symbol", sym), zap.Error(err))
			failures = append(failures, notifier.DigestFailure{Symbol: sym, Err: err})
			continue
		}
		analyses = append(analyses, a)
		if err := s.Recorder.RecordAnalysis(a); err != nil {
			s.log.Error("record analysis failed", zap.String("symbol", sym), zap.Error(err))
		}
	}

	report := notifier.FormatDigest(s.now(), analyses, failures)
	s.trySend(report)
	return report
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Telegram appends @botname to commands in groups.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/summary":
		if len(fields) < 2 {
			return "Usage: /summary SYMBOL"
		}
		a, err := s.Analyzer.Analyze(ctx, strings.ToUpper(fields[1]))
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", strings.ToUpper(fields[1]), err)
		}
		return notifier.FormatAnalysis(a)
	case "/board":
		return notifier.FormatBoard(s.Board.Groups())
	case "/digest":
		// RunDigest sends the report itself.
		s.RunDigest()
		return ""
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error("send notification failed", zap.Error(err))
	}
}
