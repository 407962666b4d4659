package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SwingHunter/internal/logger"
	"SwingHunter/internal/notifier"
	"SwingHunter/internal/presenter"
	"SwingHunter/internal/scanner"

	"github.com/robfig/cron/v3"
)

// Notifier delivers digest messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// Scheduler runs the watchlist digest on a cron schedule and answers
// chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Scanner   *scanner.Scanner
	Notifier  Notifier
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. watchlist is the raw comma-separated
// ticker list scanned by the digest.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, n Notifier, watchlist string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Scanner:   sc,
		Notifier:  n,
		Watchlist: scanner.ParseTickers(watchlist, sc.MarketSuffix),
		Ctx:       ctx,
	}
}

// RegisterDigest registers the watchlist digest task.
func (s *Scheduler) RegisterDigest(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.L().Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.L().Info().Msg("scheduler stopped")
}

// RunDigestNow executes the digest task immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	logger.L().Info().Int("tickers", len(s.Watchlist)).Msg("running digest task")
	s.trySend(s.scanDigest(s.Ctx, s.Watchlist))
}

func (s *Scheduler) scanDigest(ctx context.Context, symbols []string) string {
	results := s.Scanner.Scan(ctx, symbols, nil)
	return notifier.FormatDigest(presenter.Build(results), time.Now())
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, args, _ := strings.Cut(strings.TrimSpace(command), " ")
	// Group chats address commands as /scan@BotName.
	name, _, _ = strings.Cut(name, "@")

	switch strings.ToLower(name) {
	case "/scan":
		symbols := scanner.ParseTickers(args, s.Scanner.MarketSuffix)
		if len(symbols) == 0 {
			symbols = s.Watchlist
		}
		return s.scanDigest(ctx, symbols)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Watchlist)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		logger.L().Error().Err(err).Msg("send notification")
	}
}
