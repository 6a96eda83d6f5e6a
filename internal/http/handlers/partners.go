package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) ListPartners(w http.ResponseWriter, r *http.Request) {
	items, err := a.Store.ListPartners(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) GetPartner(w http.ResponseWriter, r *http.Request) {
	p, err := a.Store.GetPartner(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}
