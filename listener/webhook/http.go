package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// listenerFunc handles one request, the result is written back as JSON.
type listenerFunc func(r *http.Request) (any, error)

type listener struct {
	token string
	f     listenerFunc
}

// HandlerError carries the status code a failed listener call responds with.
type HandlerError struct {
	Code int
	Err  error
}

func (e *HandlerError) Error() string {
	return e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

type Registrar interface {
	HandleFunc(pattern string, handler http.HandlerFunc)
}

type Handler struct {
	mu        sync.RWMutex
	listeners map[string]*listener
}

func NewHandler(srv Registrar) *Handler {
	h := &Handler{
		listeners: make(map[string]*listener),
	}

	srv.HandleFunc("POST /{name}/{token}", h.handler)

	return h
}

func (s *Handler) RegisterListener(name, token string, f listenerFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listeners[name]; ok {
		return fmt.Errorf("listener with name %s already exists", name)
	}

	s.listeners[name] = &listener{token, f}

	return nil
}

func (s *Handler) DeregisterListener(name string) {
	s.mu.Lock()
	delete(s.listeners, name)
	s.mu.Unlock()
}

func (s *Handler) ExistsListener(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.listeners[name]

	return ok
}

func (s *Handler) handler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "webhook name required")

		return
	}

	s.mu.RLock()
	lis, ok := s.listeners[name]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "webhook not found")

		return
	}

	token := r.PathValue("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "webhook token required")

		return
	}

	if lis.token != token {
		writeError(w, http.StatusUnauthorized, "webhook token invalid")

		return
	}

	result, err := lis.f(r)
	if err != nil {
		code := http.StatusInternalServerError
		var he *HandlerError
		if errors.As(err, &he) {
			code = he.Code
		}

		writeError(w, code, "process webhook func: "+err.Error())

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
