package webitel

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/webitel/webitel-openapi-client-go/client"
	"github.com/webitel/webitel-openapi-client-go/client/communication_type_service"
	"github.com/webitel/webitel-openapi-client-go/client/member_service"
	"github.com/webitel/webitel-openapi-client-go/client/queue_service"
	"github.com/webitel/webitel-openapi-client-go/models"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
)

// Webitel places a call to every phone number of the subscription target by
// adding it as a member of an outbound dialer queue. Only checks in ERROR
// state are dialed.
type Webitel struct {
	name    string
	cfg     *config.WebitelConfig
	baseURL string
	log     *wlog.Logger
	cli     *client.WebitelAPI
}

func New(name string, cfg *config.WebitelConfig, baseURL string, log *wlog.Logger) (*Webitel, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}

	var apiKey string
	if cfg.Authorization != nil {
		apiKey = cfg.Authorization.Value
	}

	transport := &client.TransportConfig{
		Host:      u.Host,
		BasePath:  u.Path,
		Schemes:   []string{u.Scheme},
		APIKey:    apiKey,
		TLSConfig: &tls.Config{},
	}

	cli := client.NewHTTPClientWithConfig(strfmt.Default, transport)
	if _, err = cli.QueueService.ReadQueue(&queue_service.ReadQueueParams{ID: strconv.Itoa(cfg.QueueID)}); err != nil {
		return nil, fmt.Errorf("read queue %d: %w", cfg.QueueID, err)
	}

	if _, err = cli.CommunicationTypeService.ReadCommunicationType(&communication_type_service.ReadCommunicationTypeParams{ID: strconv.Itoa(cfg.TypeID)}); err != nil {
		return nil, fmt.Errorf("read communication type %d: %w", cfg.TypeID, err)
	}

	return &Webitel{
		name:    name,
		cfg:     cfg,
		baseURL: baseURL,
		log:     log,
		cli:     cli,
	}, nil
}

func (w *Webitel) CanHandle(t model.SubscriptionType) bool {
	return t == model.SubscriptionTypeWebitel
}

func (w *Webitel) Notify(ctx context.Context, check *model.Check, sub *model.Subscription, alerts ...*model.Alert) (*notify.Report, error) {
	report := notify.NewReport(w.name)
	if check.State != model.AlertTypeError {
		w.log.Debug("skip call for check not in error state", wlog.String("state", check.State.String()), wlog.String("check", check.ID))

		return report.Skip("state " + check.State.String() + " is not dialed"), nil
	}

	target := notify.ParseTarget(sub.Target)
	variables, err := memberVariables(w.baseURL, target, check, alerts)
	if err != nil {
		return nil, notify.Failed(w.name, err)
	}

	for _, phone := range target.Destinations {
		start := time.Now()
		err := w.createMember(ctx, phone, check, variables)
		if err != nil {
			w.log.Warn("create member at webitel", wlog.String("destination", phone), wlog.Err(err))
		}

		report.Add(notify.Delivery{Destination: phone, Err: err, Duration: time.Since(start)})
	}

	return report, nil
}

func (w *Webitel) createMember(ctx context.Context, phone string, check *model.Check, variables map[string]string) error {
	opts := member_service.NewCreateMemberParamsWithContext(ctx)
	opts.QueueID = strconv.Itoa(w.cfg.QueueID)
	opts.Body = &models.EngineCreateMemberRequest{
		Name: memberName(check),
		Communications: []*models.EngineMemberCommunicationCreateRequest{
			{
				Destination: phone,
				Type: &models.EngineLookup{
					ID: strconv.Itoa(w.cfg.TypeID),
				},
			},
		},
		Variables: variables,
	}

	if _, err := w.cli.MemberService.CreateMemberWithParams(opts); err != nil {
		return err
	}

	w.log.Info("create member at webitel, wait for a call", wlog.String("destination", phone), wlog.String("member", opts.Body.Name))

	return nil
}

func (w *Webitel) String() string {
	return w.name
}

func memberName(check *model.Check) string {
	return fmt.Sprintf("%s: %s", check.Name, uuid.Must(uuid.NewRandom()).String())
}

// memberVariables are exposed to the dialer flow, e.g. for text-to-speech.
func memberVariables(baseURL string, target notify.Target, check *model.Check, alerts []*model.Alert) (map[string]string, error) {
	message, err := notify.Message(baseURL, target, check, alerts)
	if err != nil {
		return nil, err
	}

	variables := make(map[string]string, len(alerts)+4)
	variables["check_id"] = check.ID
	variables["check_name"] = check.Name
	variables["state"] = check.State.String()
	variables["message"] = message
	for i, a := range alerts {
		if a == nil {
			continue
		}

		variables[fmt.Sprintf("alert-%d", i)] = a.String()
	}

	return variables, nil
}
