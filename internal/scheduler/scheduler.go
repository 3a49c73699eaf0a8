package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/diabolical-ninja/Finsights/internal/calculator"
	"github.com/diabolical-ninja/Finsights/internal/margin"
	"github.com/diabolical-ninja/Finsights/internal/model"
	"github.com/diabolical-ninja/Finsights/internal/notifier"
)

// Sender delivers watch reports.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Pruner drops stale cached input.
type Pruner interface {
	PruneStale(ctx context.Context) (int64, error)
}

// smaPeriods is the moving average shown in reports for each bar size.
var smaPeriods = map[model.Aggregation]int{
	model.Daily:   200,
	model.Weekly:  50,
	model.Monthly: 12,
}

// Watch describes the loan position being monitored.
type Watch struct {
	Symbols    []string
	CurrentLVR float64
	MaxLVR     float64
	Buffer     float64
	Step       float64
}

// Scheduler runs the margin watch on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Batch    *margin.Batch
	Notifier Sender
	Pruner   Pruner // optional
	Watch    Watch
	Ctx      context.Context

	mu         sync.Mutex
	lastReport string
	alerted    map[string]string // symbol -> date of the last alert
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, batch *margin.Batch, sender Sender, watch Watch) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Batch:    batch,
		Notifier: sender,
		Watch:    watch,
		Ctx:      ctx,
		alerted:  make(map[string]string),
	}
}

// Register adds the watch task and the daily cache prune.
func (s *Scheduler) Register(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	if s.Pruner != nil {
		if _, err := s.Cron.AddFunc("0 5 0 * * *", s.pruneTask); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunWatchNow executes the watch task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunWatchNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	runID := uuid.NewString()
	log.Printf("[INFO] [%s] running margin watch for %s", runID, strings.Join(s.Watch.Symbols, ","))

	report, alerts, err := s.Check(s.Ctx, runID)
	if err != nil {
		log.Printf("[ERROR] [%s] margin watch: %v", runID, err)
		s.trySend(fmt.Sprintf("❌ margin watch failed: %v\n\nrun %s", err, runID))
		return
	}
	s.trySend(report)
	for _, a := range alerts {
		s.trySend(a)
	}
	log.Printf("[INFO] [%s] margin watch done, %d alerts", runID, len(alerts))
}

func (s *Scheduler) pruneTask() {
	n, err := s.Pruner.PruneStale(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return
	}
	log.Printf("[INFO] pruned %d stale cached series", n)
}

// Check analyses the watchlist and returns the report and one alert per
// symbol whose latest drawdown breaches the margin call trigger of the
// current LVR. A symbol is alerted at most once per price date.
func (s *Scheduler) Check(ctx context.Context, runID string) (string, []string, error) {
	w := s.Watch
	if w.CurrentLVR < 0 || w.CurrentLVR >= w.MaxLVR+w.Buffer {
		return "", nil, fmt.Errorf("%w: current LVR %g outside [0, %g)", model.ErrInvalidInput, w.CurrentLVR, w.MaxLVR+w.Buffer)
	}
	trigger, err := calculator.MarginCallDrop(w.CurrentLVR, w.MaxLVR, w.Buffer)
	if err != nil {
		return "", nil, err
	}
	table, err := calculator.BuildLVRLookup(w.MaxLVR, w.Buffer, w.Step)
	if err != nil {
		return "", nil, err
	}
	results, err := s.Batch.Run(ctx, w.Symbols, table)
	if err != nil {
		return "", nil, err
	}

	statuses := make([]notifier.SymbolStatus, 0, len(results))
	for _, res := range results {
		st, ok := s.status(res, trigger)
		if ok {
			statuses = append(statuses, st)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var alerts []string
	for _, st := range statuses {
		if !st.Breached {
			continue
		}
		day := st.Date.Format("2006-01-02")
		if s.alerted[st.Symbol] == day {
			continue
		}
		s.alerted[st.Symbol] = day
		alerts = append(alerts, notifier.FormatAlert(st, w.CurrentLVR, trigger))
	}
	s.lastReport = notifier.FormatWatchReport(runID, w.CurrentLVR, trigger, statuses)
	return s.lastReport, alerts, nil
}

func (s *Scheduler) status(res *margin.Result, trigger float64) (notifier.SymbolStatus, bool) {
	latest, ok := res.Latest()
	if !ok {
		return notifier.SymbolStatus{}, false
	}
	points := make([]model.PricePoint, len(res.Series))
	for i, p := range res.Series {
		points[i] = p.PricePoint
	}

	st := notifier.SymbolStatus{
		Symbol:      res.Symbol,
		Date:        latest.Date,
		Price:       latest.Close,
		DrawdownPct: latest.DrawdownPct,
		Breached:    calculator.CountMarginCalls(res.Series[len(res.Series)-1:], trigger, s.Batch.Analyzer.Filter) > 0,
	}
	if high, low, err := calculator.PeriodRange(points, calculator.PeriodsPerYear[s.Batch.Aggregation]); err == nil {
		st.YearHigh, st.YearLow = high, low
		st.Position, _ = calculator.RangePosition(latest.Close, high, low)
	}
	if sma, err := calculator.SMA(points, smaPeriods[s.Batch.Aggregation]); err == nil {
		st.SMA = sma
	}
	return st, true
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/watch":
		runID := uuid.NewString()
		report, alerts, err := s.Check(ctx, runID)
		if err != nil {
			log.Printf("[ERROR] [%s] margin watch: %v", runID, err)
			return fmt.Sprintf("❌ margin watch failed: %v", err)
		}
		for _, a := range alerts {
			s.trySend(a)
		}
		return report
	case "/status":
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.lastReport == "" {
			return "no watch has run yet"
		}
		return s.lastReport
	default:
		return "Available commands:\n• /watch run the margin watch now\n• /status show the last report"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
