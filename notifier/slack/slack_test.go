package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
)

type post struct {
	channel     string
	username    string
	attachments []slack.Attachment
}

func newTestSlack(t *testing.T) (*Slack, func() []post) {
	t.Helper()

	var (
		mu    sync.Mutex
		posts []post
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())

		p := post{channel: r.PostForm.Get("channel"), username: r.PostForm.Get("username")}
		if raw := r.PostForm.Get("attachments"); raw != "" {
			require.NoError(t, json.Unmarshal([]byte(raw), &p.attachments))
		}

		mu.Lock()
		posts = append(posts, p)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if p.channel == "missing" {
			w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))

			return
		}

		w.Write([]byte(`{"ok":true,"channel":"` + p.channel + `","ts":"1700000000.000100"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.SlackConfig{URL: srv.URL, Token: "xoxb-test", Username: "Seyren Alert", Timeout: 2 * time.Second}
	log := wlog.NewLogger(&wlog.LoggerConfiguration{EnableConsole: true, ConsoleLevel: "error"})

	s, err := New("slack", cfg, "http://seyren.local", log)
	require.NoError(t, err)

	return s, func() []post {
		mu.Lock()
		defer mu.Unlock()

		return append([]post(nil), posts...)
	}
}

func TestCanHandle(t *testing.T) {
	s, _ := newTestSlack(t)

	assert.True(t, s.CanHandle(model.SubscriptionTypeSlack))
	assert.False(t, s.CanHandle(model.SubscriptionTypeHipChat))
}

func TestNotify(t *testing.T) {
	s, posts := newTestSlack(t)
	check := &model.Check{ID: "c1", Name: "load", State: model.AlertTypeError}
	alerts := []*model.Alert{{Target: "host-b", ToType: model.AlertTypeError}, {Target: "host-a", ToType: model.AlertTypeError}}

	report, err := s.Notify(context.Background(), check, &model.Subscription{Target: "#ops,missing,#dev:host-(.*)"}, alerts...)
	require.NoError(t, err)

	got := posts()
	require.Len(t, got, 3)
	assert.Equal(t, "#ops", got[0].channel)
	assert.Equal(t, "missing", got[1].channel)
	assert.Equal(t, "#dev", got[2].channel)
	assert.Equal(t, "Seyren Alert", got[0].username)

	require.Len(t, got[0].attachments, 1)
	a := got[0].attachments[0]
	assert.Equal(t, "danger", a.Color)
	assert.Equal(t, "(a|b) load", a.Title)
	assert.Equal(t, "http://seyren.local/#/checks/c1", a.TitleLink)
	assert.Len(t, a.Fields, 2)

	require.Len(t, report.Deliveries, 3)
	assert.Equal(t, 1, report.Failed())
	assert.Error(t, report.Deliveries[1].Err)
}

func TestNotify_SkipAndFail(t *testing.T) {
	s, posts := newTestSlack(t)

	report, err := s.Notify(context.Background(), &model.Check{State: model.AlertTypeUnknown}, &model.Subscription{Target: "#ops"})
	require.NoError(t, err)
	assert.True(t, report.Skipped)

	_, err = s.Notify(context.Background(), &model.Check{State: model.AlertTypeOK}, &model.Subscription{Target: "#ops:(["})
	assert.True(t, notify.IsNotificationFailed(err))

	_, err = s.Notify(context.Background(), &model.Check{State: model.AlertTypeOK}, &model.Subscription{Target: "#ops:"})
	assert.True(t, notify.IsNotificationFailed(err))

	assert.Empty(t, posts())
}

func TestAlertFields_NilAlert(t *testing.T) {
	fields := alertFields([]*model.Alert{nil, {Target: "host-a", FromType: model.AlertTypeOK, ToType: model.AlertTypeWarn, Value: 2}})
	require.Len(t, fields, 1)
	assert.Equal(t, "host-a", fields[0].Title)
	assert.Equal(t, "host-a: OK -> WARN (2)", fields[0].Value)
}

func TestAttachmentColor(t *testing.T) {
	for state, want := range map[model.AlertType]string{
		model.AlertTypeOK:    "good",
		model.AlertTypeWarn:  "warning",
		model.AlertTypeError: "danger",
	} {
		got, ok := attachmentColor(state)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}
