package handler

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"gatelog/internal/middleware"
)

type HomeHandler struct {
	sessions *middleware.SessionManager
	logger   *zap.Logger
	tmpl     *template.Template
}

func NewHomeHandler(sessions *middleware.SessionManager, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{
		sessions: sessions,
		logger:   logger,
		tmpl:     parseTemplates("index.html"),
	}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, h.logger, h.tmpl, "index.html",
		pageData(w, r, h.sessions, "Gate log"))
}
