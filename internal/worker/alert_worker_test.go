package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgebuddy/internal/alert"
	"budgebuddy/internal/core"
	"budgebuddy/internal/prefs"
	"budgebuddy/internal/storage/memory"
)

type fakeNotifier struct {
	titles []string
	bodies []string
}

func (n *fakeNotifier) Notify(_ context.Context, title, body string) error {
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
	return nil
}

func TestAlertWorker_Exceeded(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewAlertWorker(notifier, prefs.NewStore(memory.New()))

	msg := &alert.BudgetAlertMessage{
		Severity:        core.StatusExceeded,
		MonthlyExpense:  decimal.NewFromInt(150),
		Budget:          decimal.NewFromInt(100),
		Overage:         decimal.NewFromInt(50),
		ProgressPercent: 100,
	}
	if err := w.HandleAlertMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleAlertMessage() error = %v", err)
	}

	if len(notifier.titles) != 1 || notifier.titles[0] != "Budget Exceeded!" {
		t.Errorf("titles = %v, want one Budget Exceeded!", notifier.titles)
	}
	want := "You have exceeded your monthly budget by $50.00"
	if notifier.bodies[0] != want {
		t.Errorf("body = %q, want %q", notifier.bodies[0], want)
	}
}

func TestAlertWorker_Warning(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewAlertWorker(notifier, prefs.NewStore(memory.New()))

	msg := &alert.BudgetAlertMessage{
		Severity:        core.StatusWarning,
		ProgressPercent: 85,
	}
	if err := w.HandleAlertMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleAlertMessage() error = %v", err)
	}

	want := "You have reached 85% of your monthly budget"
	if notifier.bodies[0] != want {
		t.Errorf("body = %q, want %q", notifier.bodies[0], want)
	}
}

func TestAlertWorker_UnknownSeverity(t *testing.T) {
	w := NewAlertWorker(&fakeNotifier{}, prefs.NewStore(memory.New()))
	msg := &alert.BudgetAlertMessage{Severity: core.StatusOK}
	if err := w.HandleAlertMessage(context.Background(), msg); err == nil {
		t.Error("HandleAlertMessage() should reject a non-alert severity")
	}
}

func TestReminderScheduler_Tick(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := prefs.NewStore(store)
	notifier := &fakeNotifier{}

	r := NewReminderScheduler(notifier, p)
	now := time.Date(2024, time.January, 15, 20, 5, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	// Disabled: nothing happens.
	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(notifier.titles) != 0 {
		t.Fatal("reminder fired while disabled")
	}

	if err := p.SetDailyReminderEnabled(ctx, true); err != nil {
		t.Fatal(err)
	}

	// Enabled and past 20:00: fires once.
	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(notifier.titles) != 1 {
		t.Fatalf("reminder fired %d times today, want 1", len(notifier.titles))
	}

	// Next day: fires again.
	now = now.AddDate(0, 0, 1)
	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(notifier.titles) != 2 {
		t.Fatalf("reminder count = %d after next day, want 2", len(notifier.titles))
	}
}

func TestReminderScheduler_BeforeConfiguredTime(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := prefs.NewStore(store)
	if err := p.SetDailyReminderEnabled(ctx, true); err != nil {
		t.Fatal(err)
	}

	notifier := &fakeNotifier{}
	r := NewReminderScheduler(notifier, p)
	r.now = func() time.Time {
		return time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)
	}

	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(notifier.titles) != 0 {
		t.Error("reminder fired before the configured time")
	}
}
