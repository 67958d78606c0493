package budget

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
)

// Action is the budget guard's verdict for a spend request.
type Action string

const (
	ActionAllow Action = "allow"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
)

// Limits configures the per-office rate windows.
type Limits struct {
	Hourly       float64
	Daily        float64
	PauseEnabled bool
	Cooldown     time.Duration
}

// DefaultLimits returns the stock budget: warn past 1000 credits per hour
// or 10000 per day, never pause.
func DefaultLimits() Limits {
	return Limits{Hourly: 1000, Daily: 10000, Cooldown: 60 * time.Second}
}

// CheckResult reports a budget decision with the window usage behind it.
type CheckResult struct {
	Allowed     bool
	Action      Action
	Reason      string
	HourlyUsage float64
	HourlyLimit float64
	DailyUsage  float64
	DailyLimit  float64
	Remaining   float64
	Cooldown    time.Duration
}

type spend struct {
	at      time.Time
	credits float64
}

type officeWindow struct {
	mu       sync.Mutex
	hourly   []spend
	daily    float64
	lastYear int
	lastYDay int
}

// Windows enforces hourly and daily credit budgets per office.
type Windows struct {
	mu      sync.Mutex
	offices map[string]*officeWindow
	limits  Limits
	now     func() time.Time
}

// NewWindows builds the budget guard with the given limits.
func NewWindows(limits Limits) *Windows {
	return &Windows{
		offices: make(map[string]*officeWindow),
		limits:  limits,
		now:     time.Now,
	}
}

func (w *Windows) office(id string) *officeWindow {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, ok := w.offices[id]
	if !ok {
		o = &officeWindow{}
		w.offices[id] = o
	}
	return o
}

// Check decides whether an office may spend the estimated credits. An
// insufficient balance always blocks; an exhausted window blocks only when
// the budget pause is enabled and otherwise warns.
func (w *Windows) Check(officeID string, estimated, balance float64) CheckResult {
	o := w.office(officeID)
	o.mu.Lock()
	defer o.mu.Unlock()

	now := w.now()
	prune(o, now)

	var hourUsage float64
	for _, s := range o.hourly {
		hourUsage += s.credits
	}

	res := CheckResult{
		Allowed:     true,
		Action:      ActionAllow,
		HourlyUsage: hourUsage,
		HourlyLimit: w.limits.Hourly,
		DailyUsage:  o.daily,
		DailyLimit:  w.limits.Daily,
		Remaining:   balance,
	}

	if balance < estimated {
		res.Allowed = false
		res.Action = ActionBlock
		res.Reason = fmt.Sprintf("Insufficient credits: %.0f < %.0f", balance, estimated)
		observability.ObserveBudgetGuard("insufficient_credits", string(ActionBlock))
		return res
	}
	if hourUsage+estimated > w.limits.Hourly {
		return w.windowExceeded(res, officeID, "hourly_limit",
			fmt.Sprintf("Hourly limit exceeded: %.0f/%.0f", hourUsage, w.limits.Hourly))
	}
	if o.daily+estimated > w.limits.Daily {
		return w.windowExceeded(res, officeID, "daily_limit",
			fmt.Sprintf("Daily limit exceeded: %.0f/%.0f", o.daily, w.limits.Daily))
	}
	return res
}

func (w *Windows) windowExceeded(res CheckResult, officeID, kind, reason string) CheckResult {
	res.Reason = reason
	if w.limits.PauseEnabled {
		res.Allowed = false
		res.Action = ActionBlock
		res.Cooldown = w.limits.Cooldown
	} else {
		res.Action = ActionWarn
		slog.Warn("budget window exceeded",
			slog.String("office_id", officeID),
			slog.String("reason", reason))
	}
	observability.ObserveBudgetGuard(kind, string(res.Action))
	return res
}

// Record books reconciled spend into both windows.
func (w *Windows) Record(officeID string, credits float64) {
	o := w.office(officeID)
	o.mu.Lock()
	defer o.mu.Unlock()

	now := w.now()
	prune(o, now)
	o.hourly = append(o.hourly, spend{at: now, credits: credits})
	o.daily += credits
}

// Usage reports the current window consumption for an office.
func (w *Windows) Usage(officeID string) (hourly, daily float64) {
	o := w.office(officeID)
	o.mu.Lock()
	defer o.mu.Unlock()

	prune(o, w.now())
	for _, s := range o.hourly {
		hourly += s.credits
	}
	return hourly, o.daily
}

// prune drops spends older than an hour and resets the daily counter when
// the calendar day changes. Callers hold o.mu.
func prune(o *officeWindow, now time.Time) {
	cutoff := now.Add(-time.Hour)
	kept := o.hourly[:0]
	for _, s := range o.hourly {
		if s.at.After(cutoff) {
			kept = append(kept, s)
		}
	}
	o.hourly = kept

	if o.lastYear != now.Year() || o.lastYDay != now.YearDay() {
		o.daily = 0
		o.lastYear = now.Year()
		o.lastYDay = now.YearDay()
	}
}
