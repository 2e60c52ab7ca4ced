// internal/server/server.go
//
// Read-only HTTP API over one specification collection.
//
// Context
// -------
// `datadict serve` exposes the validator to tools that cannot link Go:
//
//   GET /healthz                          → "ok"
//   GET /metrics                          → Prometheus exposition
//   GET /datasets                         → dataset names
//   GET /datasets/{name}/parser-args      → ParserArgs of the first file
//   GET /datasets/{name}/parser-arg-sets  → one ParserArgs per file
//
// Every request goes through the shared *specfile.Store, so repeated
// lookups hit the collection cache until the file changes.
//
// Status mapping
// --------------
//   • unknown dataset            → 404
//   • integrity error            → 422 with the error text
//   • unreadable collection file → 500
//   A degraded validator (e.g., relative data path) is still a 200; the
//   neutral fields tell the client what could not be established.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/datadict/internal/dictionary"
	"github.com/yanizio/datadict/internal/middleware"
	"github.com/yanizio/datadict/internal/specfile"
)

// Server serves one collection file.
type Server struct {
	store    *specfile.Store
	specfile string
	skipStat bool
	log      *zap.SugaredLogger
	router   chi.Router
}

// New wires the routes for the collection at path.
func New(store *specfile.Store, path string, skipStat bool, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.S()
	}
	s := &Server{store: store, specfile: path, skipStat: skipStat, log: log}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Security)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/datasets", func(r chi.Router) {
		r.Get("/", s.listDatasets)
		r.Get("/{name}/parser-args", s.parserArgs)
		r.Get("/{name}/parser-arg-sets", s.parserArgSets)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := newHTTPServer(addr, s.router)

	errc := make(chan error, 1)
	go func() {
		s.log.Infow("http listening", "addr", addr, "specfile", s.specfile)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Infow("http server stopped")
	return nil
}

//
// handlers
//

func (s *Server) listDatasets(w http.ResponseWriter, _ *http.Request) {
	coll, err := s.store.Load(s.specfile)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"specfile": s.specfile,
		"datasets": coll.Names(),
	})
}

func (s *Server) parserArgs(w http.ResponseWriter, r *http.Request) {
	val, ok := s.validator(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, val.ParserArgs())
}

func (s *Server) parserArgSets(w http.ResponseWriter, r *http.Request) {
	val, ok := s.validator(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, val.ParserArgSets())
}

// validator resolves {name} and writes the error response itself when it
// returns false.
func (s *Server) validator(w http.ResponseWriter, r *http.Request) (*dictionary.Validator, bool) {
	name := chi.URLParam(r, "name")

	if _, err := s.store.Get(s.specfile, name); err != nil {
		if errors.Is(err, specfile.ErrNotFound) {
			s.fail(w, http.StatusNotFound, err)
		} else {
			s.fail(w, http.StatusInternalServerError, err)
		}
		return nil, false
	}

	val, err := s.store.Validator(s.specfile, name, s.skipStat)
	switch {
	case errors.Is(err, dictionary.ErrIntegrity):
		s.fail(w, http.StatusUnprocessableEntity, err)
		return nil, false
	case err != nil:
		s.fail(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return val, true
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Errorw("request error", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
