package listener

import (
	"context"

	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/listener/webhook"
)

type Listener interface {
	Listen(ctx context.Context) error

	// String listener's code name
	String() string

	// Close stops accepting notifications
	Close() error
}

func NewListeners(log *wlog.Logger, cfg *config.Listeners, dispatcher webhook.Dispatcher, srv webhook.Registrar) []Listener {
	var (
		listeners []Listener
		add       = func(name string, account any, f func(l *wlog.Logger) (Listener, error)) {
			n, err := f(log.With(wlog.String("listener", name), wlog.Any("account", account)))
			if err != nil {
				log.Error("skip listener", wlog.Err(err))

				return
			}

			log.Info("add listener", wlog.String("name", name), wlog.Any("account", account))
			listeners = append(listeners, n)
		}
	)

	if len(cfg.WebhookConfigs) > 0 {
		handler := webhook.NewHandler(srv)
		for _, c := range cfg.WebhookConfigs {
			add("webhook", c.Name, func(l *wlog.Logger) (Listener, error) { return webhook.New(c, l, dispatcher, handler) })
		}
	}

	return listeners
}
