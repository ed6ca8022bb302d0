package main

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null/v5"
)

type AlertGateOptions struct {
	State AlertStateStore
	// NotificationInterval is the minimum time between two alerts for a service
	// sitting at WARNING.
	NotificationInterval time.Duration
	// AlertInterval is the minimum time between two alerts for a service sitting
	// at ERROR or CRITICAL.
	AlertInterval time.Duration
	Now           func() time.Time
}

// AlertGate decides whether a recorded status change goes to the dispatcher at all.
type AlertGate struct {
	state                AlertStateStore
	notificationInterval time.Duration
	alertInterval        time.Duration
	now                  func() time.Time
}

func NewAlertGate(options AlertGateOptions) *AlertGate {
	if options.NotificationInterval <= 0 {
		options.NotificationInterval = 120 * time.Minute
	}
	if options.AlertInterval <= 0 {
		options.AlertInterval = 10 * time.Minute
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &AlertGate{
		state:                options.State,
		notificationInterval: options.NotificationInterval,
		alertInterval:        options.AlertInterval,
		now:                  options.Now,
	}
}

// ShouldAlert only reads the alert state. Once the alert is on its way the
// caller records it with RecordAlert.
func (g *AlertGate) ShouldAlert(ctx context.Context, service Service) (bool, error) {
	if !service.Alertable() {
		return false, nil
	}

	if !service.OverallStatus.Failing() {
		return service.OldOverallStatus != "" && service.OldOverallStatus.Failing(), nil
	}

	if service.OverallStatus.WorseThan(service.OldOverallStatus) {
		return true, nil
	}

	lastAlertSent, err := g.state.LastAlertSent(ctx, service.ID)
	if err != nil {
		return false, fmt.Errorf("reading last alert sent: %w", err)
	}

	interval := g.alertInterval
	if service.OverallStatus == StatusWarning {
		interval = g.notificationInterval
	}
	return !lastAlertSent.Valid || g.now().Sub(lastAlertSent.Time) >= interval, nil
}

// RecordAlert stores the time of an alert that was let through. A recovery is
// not counted as an alert and clears the last alert time instead.
func (g *AlertGate) RecordAlert(ctx context.Context, service Service) error {
	sentAt := null.TimeFrom(g.now().UTC())
	if !service.OverallStatus.Failing() {
		sentAt = null.Time{}
	}
	if err := g.state.SetLastAlertSent(ctx, service.ID, sentAt); err != nil {
		return fmt.Errorf("updating last alert sent: %w", err)
	}
	return nil
}
