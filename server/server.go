package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
)

type Server struct {
	cfg      *config.HttpServer
	log      *wlog.Logger
	mux      *http.ServeMux
	server   *http.Server
	listener net.Listener
}

func New(log *wlog.Logger, cfg *config.HttpServer) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Bind)
	if err != nil {
		return nil, err
	}

	server := &Server{
		cfg:      cfg,
		log:      log,
		mux:      http.NewServeMux(),
		listener: listener,
	}

	server.server = &http.Server{
		Addr:    cfg.Bind,
		Handler: server.mux,
	}

	if cfg.Metrics != "" {
		server.mux.Handle("GET "+cfg.Metrics, promhttp.Handler())
	}

	return server, nil
}

// HandleFunc registers handler under the configured root. pattern may carry
// a method, e.g. "POST /{name}".
func (s *Server) HandleFunc(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(s.rooted(pattern), handler)
}

func (s *Server) rooted(pattern string) string {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		return s.cfg.Root + pattern
	}

	return method + " " + s.cfg.Root + path
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.log.Info("serve http server", wlog.String("addr", s.listener.Addr().String()))
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) PublicURL() string {
	return s.cfg.PublicURL + s.cfg.Root
}
