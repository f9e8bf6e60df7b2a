package controller

import (
	"net/http"

	"github.com/cassiomorais/checkout/internal/service"
	"github.com/go-chi/chi/v5"
)

type InstagramController struct {
	instagramService *service.InstagramService
}

func NewInstagramController(instagramService *service.InstagramService) *InstagramController {
	return &InstagramController{instagramService: instagramService}
}

// Profile handles GET /api/instagram/{username}/profile
func (h *InstagramController) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.instagramService.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Success: true, Data: profile})
}

// Posts handles GET /api/instagram/{username}/posts
func (h *InstagramController) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.instagramService.Posts(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Success: true, Data: posts})
}

// Overview handles GET /api/instagram/{username}
func (h *InstagramController) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.instagramService.Overview(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Success: true, Data: overview})
}
