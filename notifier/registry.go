package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/webitel/wlog"
	"golang.org/x/sync/errgroup"

	"github.com/kirychukyurii/checknotifier/metrics"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
)

// Registry routes a notification to every notifier that handles the
// subscription kind. It is safe for concurrent use.
type Registry struct {
	log *wlog.Logger

	mu        sync.RWMutex
	notifiers []Notifier
}

func NewRegistry(log *wlog.Logger, notifiers []Notifier) *Registry {
	return &Registry{
		log:       log,
		notifiers: notifiers,
	}
}

// Replace swaps the notifier set, in-flight dispatches keep the old one.
func (r *Registry) Replace(notifiers []Notifier) {
	r.mu.Lock()
	r.notifiers = notifiers
	r.mu.Unlock()

	r.log.Info("replace notifiers", wlog.Int("count", len(notifiers)))
}

func (r *Registry) Notifiers() []Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Notifier(nil), r.notifiers...)
}

func (r *Registry) match(t model.SubscriptionType) []Notifier {
	var matched []Notifier
	for _, n := range r.Notifiers() {
		if n.CanHandle(t) {
			matched = append(matched, n)
		}
	}

	return matched
}

// Dispatch sends the notification through all matching notifiers
// concurrently. Disabled subscriptions and states the subscription ignores
// produce no reports and no error. The returned error joins the failures of
// notifiers that could not send at all.
func (r *Registry) Dispatch(ctx context.Context, check *model.Check, sub *model.Subscription, alerts ...*model.Alert) ([]*notify.Report, error) {
	log := r.log.With(wlog.String("notification_id", uuid.NewString()), wlog.String("check", check.ID), wlog.String("type", string(sub.Type)))

	if !sub.Enabled {
		log.Debug("skip disabled subscription")

		return nil, nil
	}

	if sub.Ignores(check.State) {
		log.Debug("skip ignored state", wlog.String("state", check.State.String()))

		return nil, nil
	}

	notifiers := r.match(sub.Type)
	if len(notifiers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoNotifier, sub.Type)
	}

	var (
		eg      errgroup.Group
		reports = make([]*notify.Report, len(notifiers))
		errs    = make([]error, len(notifiers))
	)

	for i, n := range notifiers {
		eg.Go(func() error {
			reports[i], errs[i] = n.Notify(ctx, check, sub, alerts...)
			if reports[i] == nil && errs[i] == nil {
				reports[i] = notify.NewReport(n.String())
			}

			observe(n.String(), reports[i], errs[i])

			return nil
		})
	}

	_ = eg.Wait()

	out := make([]*notify.Report, 0, len(reports))
	for i, rep := range reports {
		if errs[i] != nil {
			log.Error("send notification", wlog.String("notifier", notifiers[i].String()), wlog.Err(errs[i]))

			continue
		}

		log.Debug("notification handled", wlog.String("notifier", rep.Notifier), wlog.Int("deliveries", len(rep.Deliveries)), wlog.Int("failed", rep.Failed()))
		out = append(out, rep)
	}

	return out, errors.Join(errs...)
}

func observe(name string, report *notify.Report, err error) {
	switch {
	case err != nil:
		metrics.NotificationsTotal.WithLabelValues(name, metrics.OutcomeFailed).Inc()

		return
	case report.Skipped:
		metrics.NotificationsTotal.WithLabelValues(name, metrics.OutcomeSkipped).Inc()

		return
	}

	metrics.NotificationsTotal.WithLabelValues(name, metrics.OutcomeSent).Inc()
	for _, d := range report.Deliveries {
		outcome := metrics.OutcomeSent
		if !d.Ok() {
			outcome = metrics.OutcomeFailed
		}

		metrics.DeliveriesTotal.WithLabelValues(name, outcome).Inc()
		metrics.DeliveryDuration.WithLabelValues(name).Observe(d.Duration.Seconds())
	}
}
