package hipchat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notify"
)

type recorder struct {
	mu    sync.Mutex
	posts []url.Values
	paths []string
}

func (r *recorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseForm())

		r.mu.Lock()
		r.posts = append(r.posts, req.PostForm)
		r.paths = append(r.paths, req.URL.Path)
		r.mu.Unlock()

		switch req.PostForm.Get("room_id") {
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "dropped":
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
		default:
			w.Write([]byte(`{"status":"sent"}`))
		}
	}
}

func (r *recorder) rooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms := make([]string, 0, len(r.posts))
	for _, p := range r.posts {
		rooms = append(rooms, p.Get("room_id"))
	}

	return rooms
}

func newTestHipChat(t *testing.T) (*HipChat, *recorder) {
	t.Helper()

	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(t))
	t.Cleanup(srv.Close)

	cfg := &config.HipChatConfig{URL: srv.URL, AuthToken: "token", Username: "Seyren Alert", Timeout: 2 * time.Second}
	log := wlog.NewLogger(&wlog.LoggerConfiguration{EnableConsole: true, ConsoleLevel: "error"})

	h, err := New("hipchat", cfg, "http://seyren.local", log)
	require.NoError(t, err)

	return h, rec
}

func TestCanHandle(t *testing.T) {
	h, _ := newTestHipChat(t)

	assert.True(t, h.CanHandle(model.SubscriptionTypeHipChat))
	assert.False(t, h.CanHandle(model.SubscriptionTypeSlack))
	assert.False(t, h.CanHandle(model.SubscriptionTypeEmail))
	assert.Equal(t, "hipchat", h.String())
}

func TestNotify_States(t *testing.T) {
	cases := []struct {
		state model.AlertType
		color string
	}{
		{state: model.AlertTypeOK, color: "green"},
		{state: model.AlertTypeWarn, color: "yellow"},
		{state: model.AlertTypeError, color: "red"},
	}

	for _, c := range cases {
		t.Run(c.state.String(), func(t *testing.T) {
			h, rec := newTestHipChat(t)
			check := &model.Check{ID: "c1", Name: "disk", State: c.state}

			report, err := h.Notify(context.Background(), check, &model.Subscription{Target: "100,200"})
			require.NoError(t, err)
			assert.False(t, report.Skipped)
			assert.Equal(t, 0, report.Failed())
			require.Len(t, report.Deliveries, 2)

			require.Len(t, rec.posts, 2)
			assert.Equal(t, []string{"100", "200"}, rec.rooms())
			for i, p := range rec.posts {
				assert.Equal(t, messagePath, rec.paths[i])
				assert.Equal(t, "token", p.Get("auth_token"))
				assert.Equal(t, "Seyren Alert", p.Get("from"))
				assert.Equal(t, c.color, p.Get("color"))
				assert.Equal(t, "1", p.Get("notify"))
				assert.Equal(t, "Check <a href=http://seyren.local/#/checks/c1>disk</a> has entered its "+c.state.String()+" state.", p.Get("message"))
			}
		})
	}
}

func TestNotify_UnhandledState(t *testing.T) {
	for _, state := range []model.AlertType{model.AlertTypeUnknown, model.AlertTypeException, ""} {
		h, rec := newTestHipChat(t)

		report, err := h.Notify(context.Background(), &model.Check{ID: "c1", State: state}, &model.Subscription{Target: "100:(["})
		require.NoError(t, err)
		assert.True(t, report.Skipped)
		assert.Empty(t, report.Deliveries)
		assert.Empty(t, rec.posts)
	}
}

func TestNotify_Captures(t *testing.T) {
	h, rec := newTestHipChat(t)
	check := &model.Check{ID: "c1", Name: "load", State: model.AlertTypeWarn}
	alerts := []*model.Alert{{Target: "host-b"}, {Target: "host-a"}}

	_, err := h.Notify(context.Background(), check, &model.Subscription{Target: "100:host-(.*)"}, alerts...)
	require.NoError(t, err)

	require.Len(t, rec.posts, 1)
	assert.Equal(t, "100", rec.posts[0].Get("room_id"))
	assert.Equal(t, "(a|b) Check <a href=http://seyren.local/#/checks/c1>load</a> has entered its WARN state.", rec.posts[0].Get("message"))
}

func TestNotify_MalformedRegex(t *testing.T) {
	h, rec := newTestHipChat(t)

	report, err := h.Notify(context.Background(), &model.Check{ID: "c1", State: model.AlertTypeError}, &model.Subscription{Target: "100,200:host-(["})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, notify.IsNotificationFailed(err))
	assert.Empty(t, rec.posts)
}

func TestNotify_BlankFilter(t *testing.T) {
	h, rec := newTestHipChat(t)

	report, err := h.Notify(context.Background(), &model.Check{ID: "c1", State: model.AlertTypeOK}, &model.Subscription{Target: "100,200:"})
	assert.True(t, notify.IsNotificationFailed(err))
	assert.Nil(t, report)
	assert.Empty(t, rec.posts)
}

func TestNotify_RoomFailureIsolated(t *testing.T) {
	h, rec := newTestHipChat(t)

	report, err := h.Notify(context.Background(), &model.Check{ID: "c1", State: model.AlertTypeError}, &model.Subscription{Target: "dropped,broken,300"})
	require.NoError(t, err)

	assert.Equal(t, []string{"dropped", "broken", "300"}, rec.rooms())
	require.Len(t, report.Deliveries, 3)
	assert.Error(t, report.Deliveries[0].Err)
	assert.Error(t, report.Deliveries[1].Err)
	assert.NoError(t, report.Deliveries[2].Err)
	assert.Equal(t, 2, report.Failed())
}

func TestNotify_DoesNotMutateInputs(t *testing.T) {
	h, _ := newTestHipChat(t)

	check := &model.Check{ID: "c1", Name: "load", State: model.AlertTypeOK}
	sub := &model.Subscription{Target: "100:host-(.*)", Type: model.SubscriptionTypeHipChat}
	alert := &model.Alert{Target: "host-a"}
	checkCopy, subCopy, alertCopy := *check, *sub, *alert

	_, err := h.Notify(context.Background(), check, sub, alert)
	require.NoError(t, err)

	assert.Equal(t, checkCopy, *check)
	assert.Equal(t, subCopy, *sub)
	assert.Equal(t, alertCopy, *alert)
}

func TestPresentation(t *testing.T) {
	c, ok := presentation(model.AlertTypeError)
	assert.True(t, ok)
	assert.Equal(t, "red", c.Param())

	_, ok = presentation(model.AlertTypeException)
	assert.False(t, ok)

	assert.Equal(t, "purple", Purple.Param())
	assert.Equal(t, "random", Random.Param())
	assert.Equal(t, "UNKNOWN", Color(42).String())
}
