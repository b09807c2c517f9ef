package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgebuddy/internal/prefs"
)

// ReminderScheduler sends the daily "record your expenses" reminder at
// the configured wall-clock time. At most one reminder fires per day.
type ReminderScheduler struct {
	notifier Notifier
	prefs    *prefs.Store
	now      func() time.Time

	lastSent time.Time
}

func NewReminderScheduler(notifier Notifier, preferences *prefs.Store) *ReminderScheduler {
	return &ReminderScheduler{
		notifier: notifier,
		prefs:    preferences,
		now:      time.Now,
	}
}

// Run checks on the given interval whether the reminder is due.
func (r *ReminderScheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Tick(ctx); err != nil {
				slog.ErrorContext(ctx, "Daily reminder check failed", "error", err)
			}
		}
	}
}

// Tick fires the reminder when it is enabled, the configured time has
// passed, and nothing was sent today yet.
func (r *ReminderScheduler) Tick(ctx context.Context) error {
	enabled, err := r.prefs.DailyReminderEnabled(ctx)
	if err != nil {
		return fmt.Errorf("load reminder preference: %w", err)
	}
	if !enabled {
		return nil
	}

	at, err := r.prefs.DailyReminderTime(ctx)
	if err != nil {
		return fmt.Errorf("load reminder time: %w", err)
	}

	now := r.now()
	if !r.due(now, at) {
		return nil
	}

	if err := r.notifier.Notify(ctx, "Daily Reminder", "Don't forget to record today's transactions"); err != nil {
		return fmt.Errorf("deliver reminder: %w", err)
	}
	r.lastSent = now

	slog.InfoContext(ctx, "Daily reminder sent", "at", at)
	return nil
}

// due reports whether the configured time has been reached today and
// no reminder went out today.
func (r *ReminderScheduler) due(now time.Time, hhmm string) bool {
	if !r.lastSent.IsZero() && r.lastSent.Format("2006-01-02") == now.Format("2006-01-02") {
		return false
	}
	target, err := time.ParseInLocation("15:04", hhmm, now.Location())
	if err != nil {
		return false
	}
	minuteOfDay := now.Hour()*60 + now.Minute()
	targetMinute := target.Hour()*60 + target.Minute()
	return minuteOfDay >= targetMinute
}
