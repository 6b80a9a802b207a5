package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
)

func TestServer(t *testing.T) {
	log := wlog.NewLogger(&wlog.LoggerConfiguration{EnableConsole: true, ConsoleLevel: "error"})
	srv, err := New(log, &config.HttpServer{Bind: "127.0.0.1:0", Root: "/notify", Metrics: "/metrics"})
	require.NoError(t, err)

	srv.HandleFunc("POST /ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	base := "http://" + srv.Addr()

	resp, err := http.Post(base+"/notify/ping", "text/plain", nil)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))

	resp, err = http.Get(base + "/notify/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-done)
}

func TestRooted(t *testing.T) {
	s := &Server{cfg: &config.HttpServer{Root: "/api"}}

	assert.Equal(t, "/api/x", s.rooted("/x"))
	assert.Equal(t, "POST /api/{name}/{token}", s.rooted("POST /{name}/{token}"))
}
