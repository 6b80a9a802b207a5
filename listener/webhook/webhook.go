package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
)

const maxBodySize = 1 << 20

type Dispatcher interface {
	Dispatch(ctx context.Context, check *model.Check, sub *model.Subscription, alerts ...*model.Alert) ([]*notify.Report, error)
}

// Webhook accepts notification documents posted to {root}/{path}/{token}.
type Webhook struct {
	cfg *config.WebhookConfig
	log *wlog.Logger

	handler    *Handler
	dispatcher Dispatcher
}

type DeliveryResult struct {
	Destination string `json:"destination"`
	Ok          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

type ReportResult struct {
	Notifier   string           `json:"notifier"`
	Skipped    bool             `json:"skipped,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	Deliveries []DeliveryResult `json:"deliveries"`
}

type Result struct {
	Reports []ReportResult `json:"reports"`
}

func New(cfg *config.WebhookConfig, log *wlog.Logger, dispatcher Dispatcher, handler *Handler) (*Webhook, error) {
	if ok := handler.ExistsListener(cfg.Name); ok {
		return nil, fmt.Errorf("webhook %s already exists", cfg.Name)
	}

	return &Webhook{
		cfg:        cfg,
		log:        log,
		handler:    handler,
		dispatcher: dispatcher,
	}, nil
}

func (w *Webhook) Listen(ctx context.Context) error {
	if err := w.handler.RegisterListener(w.cfg.Name, w.cfg.Token, w.handlerFunc); err != nil {
		return err
	}

	w.log.Info("start listening")

	return nil
}

func (w *Webhook) String() string {
	return "webhook"
}

func (w *Webhook) Close() error {
	w.handler.DeregisterListener(w.cfg.Name)
	w.log.Info("stop listening")

	return nil
}

func (w *Webhook) handlerFunc(r *http.Request) (any, error) {
	var n model.Notification
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&n); err != nil {
		return nil, &HandlerError{Code: http.StatusBadRequest, Err: fmt.Errorf("decode notification: %w", err)}
	}

	if err := n.Validate(); err != nil {
		return nil, &HandlerError{Code: http.StatusBadRequest, Err: err}
	}

	w.log.Debug("receive notification", wlog.String("check", n.Check.ID), wlog.String("type", string(n.Subscription.Type)), wlog.Int("alerts", len(n.Alerts)))

	reports, err := w.dispatcher.Dispatch(r.Context(), n.Check, n.Subscription, n.Alerts...)
	if err != nil {
		return nil, &HandlerError{Code: http.StatusBadGateway, Err: err}
	}

	return NewResult(reports), nil
}

func NewResult(reports []*notify.Report) *Result {
	res := &Result{Reports: make([]ReportResult, 0, len(reports))}
	for _, r := range reports {
		rr := ReportResult{Notifier: r.Notifier, Skipped: r.Skipped, Reason: r.Reason, Deliveries: make([]DeliveryResult, 0, len(r.Deliveries))}
		for _, d := range r.Deliveries {
			dr := DeliveryResult{Destination: d.Destination, Ok: d.Ok()}
			if d.Err != nil {
				dr.Error = d.Err.Error()
			}

			rr.Deliveries = append(rr.Deliveries, dr)
		}

		res.Reports = append(res.Reports, rr)
	}

	return res
}
