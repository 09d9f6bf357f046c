package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ThiagoPax/wa-autoresponder/internal/schedule"
	"github.com/ThiagoPax/wa-autoresponder/internal/store"
)

// ReplyReader exposes the reply log.
type ReplyReader interface {
	RecentReplies(ctx context.Context, limit int) ([]store.ReplyRow, error)
}

// ScheduleSaver persists a replaced schedule table.
type ScheduleSaver interface {
	SaveSchedule(ctx context.Context, t schedule.Table) error
}

// Toggler is the listener's runtime on/off switch.
type Toggler interface {
	SetEnabled(v bool)
	Enabled() bool
}

type Server struct {
	router  *chi.Mux
	port    int
	replies ReplyReader
	saver   ScheduleSaver
	sched   *schedule.Holder
	toggler Toggler
	logger  *slog.Logger
}

func NewServer(port int, replies ReplyReader, saver ScheduleSaver, sched *schedule.Holder, toggler Toggler, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		port:    port,
		replies: replies,
		saver:   saver,
		sched:   sched,
		toggler: toggler,
		logger:  logger,
	}

	router.Get("/health", s.health)
	router.Get("/metrics", promhttp.Handler().ServeHTTP)
	router.Get("/api/v1/responder/status", s.status)
	router.Get("/api/v1/responder/schedule", s.getSchedule)
	router.Put("/api/v1/responder/schedule", s.putSchedule)
	router.Get("/api/v1/responder/replies", s.recentReplies)
	router.Post("/api/v1/responder/enabled", s.setEnabled)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "wa-autoresponder",
		"enabled": s.toggler.Enabled(),
	})
}

// windowJSON is the wire shape of one weekday window.
type windowJSON struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	table := s.sched.Get()
	out := make(map[string]windowJSON, len(table))
	for day, win := range table {
		out[day.String()] = windowJSON{
			Enabled: win.Enabled,
			Start:   schedule.FormatClock(win.StartMinutes),
			End:     schedule.FormatClock(win.EndMinutes),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) putSchedule(w http.ResponseWriter, r *http.Request) {
	var in map[string]windowJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	table := schedule.Table{}
	for key, wj := range in {
		day, ok := schedule.ParseWeekday(key)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown weekday "+key)
			return
		}
		win := schedule.Window{Enabled: wj.Enabled}
		var err error
		if wj.Start != "" {
			if win.StartMinutes, err = schedule.ParseClock(wj.Start); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if wj.End != "" {
			if win.EndMinutes, err = schedule.ParseClock(wj.End); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if win.Enabled && win.EndMinutes < win.StartMinutes {
			writeError(w, http.StatusBadRequest, "window for "+key+" ends before it starts")
			return
		}
		table[day] = win
	}

	if err := s.saver.SaveSchedule(r.Context(), table); err != nil {
		s.logger.Error("failed to save schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist schedule")
		return
	}
	s.sched.Set(table)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) recentReplies(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	rows, err := s.replies.RecentReplies(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read reply log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read reply log")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) setEnabled(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	s.toggler.SetEnabled(in.Enabled)
	s.logger.Info("responder toggled", "enabled", in.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": in.Enabled})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
