// Package server exposes chat sessions over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/portfolio-assistant/server/internal/assistant/model"
	"github.com/portfolio-assistant/server/internal/assistant/session"
	logx "github.com/portfolio-assistant/server/pkg/logger"
)

// maxBodyBytes bounds a message submission body.
const maxBodyBytes = 16 << 10

type Handler struct {
	sessions *session.Manager
	kb       *model.KnowledgeBase
}

func NewHandler(sessions *session.Manager, kb *model.KnowledgeBase) *Handler {
	return &Handler{sessions: sessions, kb: kb}
}

type sessionResponse struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
	Turns []model.Turn  `json:"turns"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Turn model.Turn `json:"turn"`
}

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(allowedOrigins))

	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/knowledge", h.getKnowledge)
		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", h.createSession)
			r.Get("/{id}", h.getSession)
			r.Post("/{id}/messages", h.postMessage)
		})
	})
}

func (h *Handler) getKnowledge(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.kb)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create()
	if err != nil {
		if errors.Is(err, session.ErrCapacity) {
			Error(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		logx.Error().Err(err).Msg("Failed to create session")
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	JSON(w, http.StatusCreated, sessionResponse{ID: s.ID(), State: s.State(), Turns: s.Turns()})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, sessionResponse{ID: s.ID(), State: s.State(), Turns: s.Turns()})
}

func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := s.Submit(r.Context(), req.Text)
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrBusy):
		Error(w, http.StatusConflict, err.Error())
	case err != nil:
		logx.Error().Err(err).Str("session_id", s.ID()).Msg("Failed to submit message")
		Error(w, http.StatusInternalServerError, "failed to submit message")
	default:
		JSON(w, http.StatusOK, messageResponse{Turn: turn})
	}
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	s, err := h.sessions.Get(id)
	if err != nil {
		Error(w, http.StatusNotFound, session.ErrNotFound.Error())
		return nil, false
	}
	return s, true
}
