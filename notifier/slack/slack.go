package slack

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
)

type Slack struct {
	name    string
	cfg     *config.SlackConfig
	baseURL string
	log     *wlog.Logger
	cli     *slack.Client
}

func New(name string, cfg *config.SlackConfig, baseURL string, log *wlog.Logger) (*Slack, error) {
	opts := []slack.Option{slack.OptionHTTPClient(&http.Client{Timeout: cfg.Timeout})}
	if cfg.URL != "" {
		// slack-go joins method names onto the API URL as is
		opts = append(opts, slack.OptionAPIURL(strings.TrimSuffix(cfg.URL, "/")+"/"))
	}

	return &Slack{
		name:    name,
		cfg:     cfg,
		baseURL: baseURL,
		log:     log,
		cli:     slack.New(cfg.BotToken(), opts...),
	}, nil
}

func (s *Slack) CanHandle(t model.SubscriptionType) bool {
	return t == model.SubscriptionTypeSlack
}

// Notify posts to every channel of the subscription target. Channels that
// fail are recorded in the report only.
func (s *Slack) Notify(ctx context.Context, check *model.Check, sub *model.Subscription, alerts ...*model.Alert) (*notify.Report, error) {
	report := notify.NewReport(s.name)
	target := notify.ParseTarget(sub.Target)

	color, ok := attachmentColor(check.State)
	if !ok {
		s.log.Warn("did not send notification to slack for check in state", wlog.String("state", check.State.String()), wlog.String("check", check.ID))

		return report.Skip("unhandled state " + check.State.String()), nil
	}

	prefix := ""
	if target.HasFilter() {
		re, err := target.Compile()
		if err != nil {
			return nil, notify.Failed(s.name, err)
		}

		prefix = notify.Annotate(notify.Captures(re, alerts))
	}

	attachment := slack.Attachment{
		Color:     color,
		Title:     prefix + check.Name,
		TitleLink: notify.CheckURL(s.baseURL, check),
		Text:      "Check " + check.Name + " has entered its " + check.State.String() + " state.",
		Fields:    alertFields(alerts),
	}

	for _, channel := range target.Destinations {
		start := time.Now()
		_, _, err := s.cli.PostMessageContext(ctx, channel,
			slack.MsgOptionUsername(s.cfg.Username),
			slack.MsgOptionAttachments(attachment),
		)
		if err != nil {
			s.log.Warn("error posting to slack", wlog.String("channel", channel), wlog.Err(err))
		} else {
			s.log.Info("posted message", wlog.String("channel", channel), wlog.String("check", check.ID))
		}

		report.Add(notify.Delivery{Destination: channel, Err: err, Duration: time.Since(start)})
	}

	return report, nil
}

func (s *Slack) String() string {
	return s.name
}

func attachmentColor(state model.AlertType) (string, bool) {
	switch state {
	case model.AlertTypeError:
		return "danger", true
	case model.AlertTypeWarn:
		return "warning", true
	case model.AlertTypeOK:
		return "good", true
	default:
		return "", false
	}
}

func alertFields(alerts []*model.Alert) []slack.AttachmentField {
	fields := make([]slack.AttachmentField, 0, len(alerts))
	for _, a := range alerts {
		if a == nil {
			continue
		}

		fields = append(fields, slack.AttachmentField{
			Title: a.Target,
			Value: a.String(),
			Short: true,
		})
	}

	return fields
}
