package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notifier/hipchat"
	"github.com/kirychukyurii/checknotifier/notifier/slack"
	"github.com/kirychukyurii/checknotifier/notifier/stdout"
	"github.com/kirychukyurii/checknotifier/notifier/webitel"
	"github.com/kirychukyurii/checknotifier/notify"
)

var ErrNoNotifier = errors.New("no notifier can handle subscription")

// Notifier delivers a check notification to one channel. Notify returns an
// error only when nothing was sent; per-destination failures are part of the
// report.
type Notifier interface {
	Notify(ctx context.Context, check *model.Check, sub *model.Subscription, alerts ...*model.Alert) (*notify.Report, error)

	// CanHandle reports whether the notifier delivers subscriptions of kind t.
	CanHandle(t model.SubscriptionType) bool
	String() string
}

func NewNotifiers(log *wlog.Logger, baseURL string, nrs *config.Notifiers) []Notifier {
	var (
		notifiers []Notifier
		add       = func(name string, account any, f func(name string, l *wlog.Logger) (Notifier, error)) {
			n, err := f(name, log.With(wlog.String("notifier", name), wlog.Any("account", account)))
			if err != nil {
				log.Error("skip notifier", wlog.String("name", name), wlog.Err(err))

				return
			}

			log.Info("add notifier", wlog.String("name", name), wlog.Any("account", account))

			notifiers = append(notifiers, n)
		}
	)

	if nrs.StdOut {
		add("stdout", "log", func(name string, l *wlog.Logger) (Notifier, error) { return stdout.New(name, baseURL, l) })
	}

	for i, c := range nrs.HipChatConfigs {
		add(indexed("hipchat", i), c.URL, func(name string, l *wlog.Logger) (Notifier, error) { return hipchat.New(name, c, baseURL, l) })
	}

	for i, c := range nrs.SlackConfigs {
		add(indexed("slack", i), c.Username, func(name string, l *wlog.Logger) (Notifier, error) { return slack.New(name, c, baseURL, l) })
	}

	for i, c := range nrs.WebitelConfigs {
		add(indexed("webitel", i), c.URL, func(name string, l *wlog.Logger) (Notifier, error) { return webitel.New(name, c, baseURL, l) })
	}

	return notifiers
}

// indexed keeps the first notifier of a kind under its plain name.
func indexed(kind string, i int) string {
	if i == 0 {
		return kind
	}

	return fmt.Sprintf("%s-%d", kind, i)
}
