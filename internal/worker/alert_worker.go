// Package worker delivers budget alerts and daily reminders pulled
// off the alert queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgebuddy/internal/alert"
	"budgebuddy/internal/core"
	"budgebuddy/internal/prefs"
)

// Notifier is the device-facing notification surface. Rendering a
// push/local notification is outside the ledger; the log notifier
// stands in where no platform channel is wired.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, title, body string) error {
	slog.InfoContext(ctx, "Notification",
		"title", title,
		"body", body)
	return nil
}

// AlertWorker turns alert messages into user notifications.
type AlertWorker struct {
	notifier Notifier
	prefs    *prefs.Store
}

func NewAlertWorker(notifier Notifier, preferences *prefs.Store) *AlertWorker {
	return &AlertWorker{
		notifier: notifier,
		prefs:    preferences,
	}
}

// HandleAlertMessage renders and delivers one budget alert.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *alert.BudgetAlertMessage) error {
	title, body, err := w.render(ctx, msg)
	if err != nil {
		return err
	}

	if err := w.notifier.Notify(ctx, title, body); err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}

	slog.InfoContext(ctx, "Budget alert delivered",
		"severity", msg.Severity,
		"month", msg.Month,
		"year", msg.Year)

	return nil
}

func (w *AlertWorker) render(ctx context.Context, msg *alert.BudgetAlertMessage) (title, body string, err error) {
	currency := prefs.DefaultCurrency
	if w.prefs != nil {
		currency, err = w.prefs.Currency(ctx)
		if err != nil {
			return "", "", fmt.Errorf("load currency: %w", err)
		}
	}

	switch msg.Severity {
	case core.StatusExceeded:
		return "Budget Exceeded!",
			fmt.Sprintf("You have exceeded your monthly budget by %s",
				prefs.FormatAmount(msg.Overage, currency)),
			nil
	case core.StatusWarning:
		return "Budget Warning",
			fmt.Sprintf("You have reached %d%% of your monthly budget", msg.ProgressPercent),
			nil
	default:
		return "", "", fmt.Errorf("unexpected alert severity %q", msg.Severity)
	}
}
