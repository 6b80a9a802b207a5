package stdout

import (
	"context"

	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
)

// Logger writes notifications for LOG subscriptions to the application log.
type Logger struct {
	name    string
	baseURL string
	log     *wlog.Logger
}

func New(name string, baseURL string, log *wlog.Logger) (*Logger, error) {
	return &Logger{name: name, baseURL: baseURL, log: log}, nil
}

func (l *Logger) CanHandle(t model.SubscriptionType) bool {
	return t == model.SubscriptionTypeLog
}

func (l *Logger) Notify(ctx context.Context, check *model.Check, sub *model.Subscription, alerts ...*model.Alert) (*notify.Report, error) {
	target := notify.ParseTarget(sub.Target)
	message, err := notify.Message(l.baseURL, target, check, alerts)
	if err != nil {
		return nil, notify.Failed(l.name, err)
	}

	report := notify.NewReport(l.name)
	for _, dest := range target.Destinations {
		l.log.Info("receive notification", wlog.String("destination", dest), wlog.String("message", message), wlog.Any("alerts", alerts))
		report.Add(notify.Delivery{Destination: dest})
	}

	return report, nil
}

func (l *Logger) String() string {
	return l.name
}
