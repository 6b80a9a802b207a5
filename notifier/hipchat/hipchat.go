package hipchat

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
	"github.com/kirychukyurii/checknotifier/notify/webhook"
)

const messagePath = "/v1/rooms/message"

type HipChat struct {
	name    string
	cfg     *config.HipChatConfig
	baseURL string
	log     *wlog.Logger
	cli     *webhook.Client
}

// New creates a HipChat v1 room notifier. baseURL is the monitoring web UI
// check links point to. cfg.URL is expected to be validated by config.
func New(name string, cfg *config.HipChatConfig, baseURL string, log *wlog.Logger) (*HipChat, error) {
	return &HipChat{
		name:    name,
		cfg:     cfg,
		baseURL: baseURL,
		log:     log,
		cli:     webhook.New(&webhook.Options{Timeout: cfg.Timeout}),
	}, nil
}

func (h *HipChat) CanHandle(t model.SubscriptionType) bool {
	return t == model.SubscriptionTypeHipChat
}

// Notify posts one message per room of the subscription target. Only a
// failure to prepare the message is returned as an error; a room that cannot
// be reached is logged and recorded in the report.
func (h *HipChat) Notify(ctx context.Context, check *model.Check, sub *model.Subscription, alerts ...*model.Alert) (*notify.Report, error) {
	report := notify.NewReport(h.name)
	target := notify.ParseTarget(sub.Target)

	color, ok := presentation(check.State)
	if !ok {
		h.log.Warn("did not send notification to hipchat for check in state", wlog.String("state", check.State.String()), wlog.String("check", check.ID))

		return report.Skip("unhandled state " + check.State.String()), nil
	}

	message, err := notify.Message(h.baseURL, target, check, alerts)
	if err != nil {
		return nil, notify.Failed(h.name, err)
	}

	for _, room := range target.Destinations {
		report.Add(h.send(ctx, room, message, color, true))
	}

	return report, nil
}

func (h *HipChat) send(ctx context.Context, room, message string, color Color, ping bool) notify.Delivery {
	h.log.Info("posting message", wlog.String("from", h.cfg.Username), wlog.String("room", room), wlog.String("message", message), wlog.String("color", color.String()))

	params := url.Values{}
	params.Set("auth_token", h.cfg.Token())
	params.Set("from", h.cfg.Username)
	params.Set("room_id", room)
	params.Set("message", message)
	params.Set("color", color.Param())
	if ping {
		params.Set("notify", "1")
	}

	start := time.Now()
	_, err := h.cli.PostForm(ctx, strings.TrimSuffix(h.cfg.URL, "/")+messagePath, params)
	d := notify.Delivery{Destination: room, Err: err, Duration: time.Since(start)}
	if err != nil {
		h.log.Warn("error posting to hipchat", wlog.String("room", room), wlog.Err(err))
	}

	return d
}

func (h *HipChat) String() string {
	return h.name
}
