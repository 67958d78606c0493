package toolexec

import (
	"fmt"
	"sync"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// QuotaLimits caps request volume against one vendor.
type QuotaLimits struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
	Concurrent        int
}

var vendorLimits = map[string]QuotaLimits{
	"google":    {RequestsPerMinute: 60, RequestsPerHour: 1000, RequestsPerDay: 10000, Concurrent: 10},
	"microsoft": {RequestsPerMinute: 60, RequestsPerHour: 1000, RequestsPerDay: 10000, Concurrent: 10},
	"aws":       {RequestsPerMinute: 100, RequestsPerHour: 5000, RequestsPerDay: 50000, Concurrent: 20},
	"internal":  {RequestsPerMinute: 120, RequestsPerHour: 3000, RequestsPerDay: 30000, Concurrent: 50},
	"custom":    {RequestsPerMinute: 30, RequestsPerHour: 500, RequestsPerDay: 5000, Concurrent: 5},
}

// defaultQuota applies to vendors without an explicit entry.
var defaultQuota = QuotaLimits{RequestsPerMinute: 60, RequestsPerHour: 1000, RequestsPerDay: 10000, Concurrent: 10}

// QuotaDenial explains a rejected reservation. It unwraps to
// domain.ErrRateLimited.
type QuotaDenial struct {
	Vendor   string
	Window   string
	Reason   string
	Cooldown time.Duration
}

func (d *QuotaDenial) Error() string { return d.Reason }

func (d *QuotaDenial) Unwrap() error { return domain.ErrRateLimited }

// vendorUsage is the sliding-window state for one office:vendor pair.
// Timestamps are appended on RecordUsage and pruned on every check, so
// slices stay bounded by the vendor's own limits.
type vendorUsage struct {
	mu     sync.Mutex
	minute []time.Time
	hour   []time.Time
	day    []time.Time
	active int
}

// Quotas enforces per-office, per-vendor request budgets over sliding
// minute/hour/day windows plus a concurrent-execution cap. Reservations
// bracket plan execution; usage is recorded after the plan loop, so
// window counts trail in-flight work by one plan.
type Quotas struct {
	mu     sync.Mutex
	usage  map[string]*vendorUsage
	limits map[string]QuotaLimits
	now    func() time.Time
}

// NewQuotas returns a quota manager with the built-in vendor limits.
func NewQuotas() *Quotas {
	limits := make(map[string]QuotaLimits, len(vendorLimits))
	for vendor, l := range vendorLimits {
		limits[vendor] = l
	}
	return &Quotas{
		usage:  make(map[string]*vendorUsage),
		limits: limits,
		now:    time.Now,
	}
}

// SetLimits overrides the limits for one vendor.
func (q *Quotas) SetLimits(vendor string, l QuotaLimits) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.limits[vendor] = l
}

func (q *Quotas) limitsFor(vendor string) QuotaLimits {
	q.mu.Lock()
	defer q.mu.Unlock()
	if l, ok := q.limits[vendor]; ok {
		return l
	}
	return defaultQuota
}

func (q *Quotas) state(officeID, vendor string) *vendorUsage {
	key := officeID + ":" + vendor
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.usage[key]
	if !ok {
		s = &vendorUsage{}
		q.usage[key] = s
	}
	return s
}

// Reserve checks all windows for office:vendor and claims one
// concurrent slot. The caller must Release the slot when the step
// set it was reserved for has finished.
func (q *Quotas) Reserve(officeID, vendor string) error {
	limits := q.limitsFor(vendor)
	s := q.state(officeID, vendor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if denial := q.checkLocked(s, vendor, limits); denial != nil {
		observability.ObserveQuotaRejection(vendor, denial.Window)
		return denial
	}
	s.active++
	return nil
}

// Release returns one concurrent slot.
func (q *Quotas) Release(officeID, vendor string) {
	s := q.state(officeID, vendor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active > 0 {
		s.active--
	}
}

// RecordUsage appends one completed request to every window. Usage is
// recorded regardless of step outcome, matching vendor-side accounting.
func (q *Quotas) RecordUsage(officeID, vendor string) {
	now := q.now()
	s := q.state(officeID, vendor)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minute = append(s.minute, now)
	s.hour = append(s.hour, now)
	s.day = append(s.day, now)
}

// checkLocked evaluates minute, hour, day then concurrency. Caller
// holds s.mu.
func (q *Quotas) checkLocked(s *vendorUsage, vendor string, limits QuotaLimits) *QuotaDenial {
	now := q.now()
	s.minute = pruneBefore(s.minute, now.Add(-time.Minute))
	s.hour = pruneBefore(s.hour, now.Add(-time.Hour))
	s.day = pruneBefore(s.day, now.Add(-24*time.Hour))

	if n := len(s.minute); n >= limits.RequestsPerMinute {
		cooldown := time.Minute - now.Sub(s.minute[0])
		if cooldown < 0 {
			cooldown = 0
		}
		return &QuotaDenial{
			Vendor:   vendor,
			Window:   "minute",
			Reason:   fmt.Sprintf("Rate limit exceeded: %d/%d requests per minute", n, limits.RequestsPerMinute),
			Cooldown: cooldown,
		}
	}
	if n := len(s.hour); n >= limits.RequestsPerHour {
		cooldown := time.Hour - now.Sub(s.hour[0])
		if cooldown < 0 {
			cooldown = 0
		}
		return &QuotaDenial{
			Vendor:   vendor,
			Window:   "hour",
			Reason:   fmt.Sprintf("Hourly limit exceeded: %d/%d requests per hour", n, limits.RequestsPerHour),
			Cooldown: cooldown,
		}
	}
	if n := len(s.day); n >= limits.RequestsPerDay {
		utc := now.UTC()
		midnight := time.Date(utc.Year(), utc.Month(), utc.Day()+1, 0, 0, 0, 0, time.UTC)
		return &QuotaDenial{
			Vendor:   vendor,
			Window:   "day",
			Reason:   fmt.Sprintf("Daily limit exceeded: %d/%d requests per day", n, limits.RequestsPerDay),
			Cooldown: midnight.Sub(utc),
		}
	}
	if s.active >= limits.Concurrent {
		return &QuotaDenial{
			Vendor:   vendor,
			Window:   "concurrent",
			Reason:   fmt.Sprintf("Too many concurrent requests: %d/%d", s.active, limits.Concurrent),
			Cooldown: time.Second,
		}
	}
	return nil
}

func pruneBefore(records []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(records) && !records[i].After(cutoff) {
		i++
	}
	return records[i:]
}

// QuotaStatus is a point-in-time usage snapshot for one vendor.
type QuotaStatus struct {
	Vendor          string `json:"vendor"`
	MinuteUsed      int    `json:"minute_used"`
	MinuteLimit     int    `json:"minute_limit"`
	HourUsed        int    `json:"hour_used"`
	HourLimit       int    `json:"hour_limit"`
	DayUsed         int    `json:"day_used"`
	DayLimit        int    `json:"day_limit"`
	Active          int    `json:"active"`
	ConcurrentLimit int    `json:"concurrent_limit"`
}

// Usage reports current window counts for office:vendor.
func (q *Quotas) Usage(officeID, vendor string) QuotaStatus {
	limits := q.limitsFor(vendor)
	now := q.now()
	s := q.state(officeID, vendor)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minute = pruneBefore(s.minute, now.Add(-time.Minute))
	s.hour = pruneBefore(s.hour, now.Add(-time.Hour))
	s.day = pruneBefore(s.day, now.Add(-24*time.Hour))
	return QuotaStatus{
		Vendor:          vendor,
		MinuteUsed:      len(s.minute),
		MinuteLimit:     limits.RequestsPerMinute,
		HourUsed:        len(s.hour),
		HourLimit:       limits.RequestsPerHour,
		DayUsed:         len(s.day),
		DayLimit:        limits.RequestsPerDay,
		Active:          s.active,
		ConcurrentLimit: limits.Concurrent,
	}
}
