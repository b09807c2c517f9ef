// Package prefs reads and writes user preferences on top of the
// settings table: display currency, the budget alert threshold, and
// the daily reminder.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"budgebuddy/internal/core"
)

const (
	keyCurrency          = "currency"
	keyAlertThreshold    = "budget_alert_threshold"
	keyDailyReminder     = "daily_reminder"
	keyDailyReminderTime = "daily_reminder_time"
)

const (
	DefaultCurrency       = "USD"
	DefaultAlertThreshold = 80
	DefaultReminderTime   = "20:00"
)

// Settings is the key-value slice of the record store the preferences
// live in.
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

type Store struct {
	settings Settings
}

func NewStore(settings Settings) *Store {
	return &Store{settings: settings}
}

func (s *Store) Currency(ctx context.Context) (string, error) {
	value, err := s.settings.GetSetting(ctx, keyCurrency)
	if errors.Is(err, core.ErrNotFound) {
		return DefaultCurrency, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) SetCurrency(ctx context.Context, code string) error {
	if _, ok := currencySymbols[code]; !ok {
		return fmt.Errorf("unsupported currency %q", code)
	}
	return s.settings.SetSetting(ctx, keyCurrency, code)
}

// AlertThreshold is the budget progress percentage at which a warning
// fires. Defaults to 80.
func (s *Store) AlertThreshold(ctx context.Context) (int, error) {
	value, err := s.settings.GetSetting(ctx, keyAlertThreshold)
	if errors.Is(err, core.ErrNotFound) {
		return DefaultAlertThreshold, nil
	}
	if err != nil {
		return 0, err
	}
	threshold, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse alert threshold %q: %w", value, err)
	}
	return threshold, nil
}

func (s *Store) SetAlertThreshold(ctx context.Context, threshold int) error {
	if threshold < 0 || threshold > 100 {
		return fmt.Errorf("alert threshold %d out of range [0,100]", threshold)
	}
	return s.settings.SetSetting(ctx, keyAlertThreshold, strconv.Itoa(threshold))
}

func (s *Store) DailyReminderEnabled(ctx context.Context) (bool, error) {
	value, err := s.settings.GetSetting(ctx, keyDailyReminder)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(value)
}

func (s *Store) SetDailyReminderEnabled(ctx context.Context, enabled bool) error {
	return s.settings.SetSetting(ctx, keyDailyReminder, strconv.FormatBool(enabled))
}

// DailyReminderTime is a local wall-clock time in HH:MM form.
func (s *Store) DailyReminderTime(ctx context.Context) (string, error) {
	value, err := s.settings.GetSetting(ctx, keyDailyReminderTime)
	if errors.Is(err, core.ErrNotFound) {
		return DefaultReminderTime, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) SetDailyReminderTime(ctx context.Context, hhmm string) error {
	if _, err := parseClock(hhmm); err != nil {
		return err
	}
	return s.settings.SetSetting(ctx, keyDailyReminderTime, hhmm)
}

func parseClock(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(hhmm[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(hhmm[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return hour*60 + minute, nil
}
