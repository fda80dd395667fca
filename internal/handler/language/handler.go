package language

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/medbridge/backend/internal/model/language"
	"github.com/zhouzirui/medbridge/backend/pkg/utils"
)

// Handler serves the language catalog.
type Handler struct {
	languages language.Store
}

func New(languages language.Store) *Handler {
	return &Handler{
		languages: languages,
	}
}

// RegisterRoutes mounts the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/languages", h.handleListLanguages)
}

func (h *Handler) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.languages.List())
}
