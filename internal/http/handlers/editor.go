package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"supportraise/internal/domain"
	"supportraise/internal/editor"
)

type openSessionRequest struct {
	PartnerID string `json:"partner_id"`
}

type sessionResponse struct {
	SessionID string          `json:"session_id"`
	Editor    editor.View     `json:"editor"`
	Partner   *domain.Partner `json:"partner,omitempty"`
}

// OpenEditor starts an editor session on an existing partner, or on a new
// one when no partner_id is given.
func (a *App) OpenEditor(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrAuthRequired)
		return
	}
	var req openSessionRequest
	if !a.decode(w, r, &req) {
		return
	}

	var partner *domain.Partner
	if req.PartnerID != "" {
		p, err := a.Store.GetPartner(r.Context(), userID, req.PartnerID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		partner = p
	}

	e := editor.New(userID, partner, a.Store,
		editor.WithGuard(a.Guard),
		editor.WithLetterMessage(a.LetterMessage),
	)
	sid := a.Sessions.Open(userID, e)
	a.log(r).Debug().Str("session_id", sid).Str("partner_id", req.PartnerID).Msg("editor opened")
	a.json(w, http.StatusCreated, sessionResponse{SessionID: sid, Editor: e.Snapshot()})
}

func (a *App) GetEditor(w http.ResponseWriter, r *http.Request) {
	a.withEditor(w, r, func(*editor.Editor) error { return nil })
}

func (a *App) PatchDraft(w http.ResponseWriter, r *http.Request) {
	var patch editor.Patch
	if !a.decode(w, r, &patch) {
		return
	}
	a.withEditor(w, r, func(e *editor.Editor) error { return e.Apply(patch) })
}

func (a *App) ToggleLock(w http.ResponseWriter, r *http.Request) {
	a.withEditor(w, r, (*editor.Editor).ToggleLock)
}

func (a *App) ToggleStar(w http.ResponseWriter, r *http.Request) {
	a.withEditor(w, r, (*editor.Editor).ToggleStar)
}

func (a *App) RequestDelete(w http.ResponseWriter, r *http.Request) {
	a.withEditor(w, r, (*editor.Editor).RequestDelete)
}

func (a *App) CancelDelete(w http.ResponseWriter, r *http.Request) {
	a.withEditor(w, r, (*editor.Editor).CancelDelete)
}

// SaveEditor upserts the draft. A failed save keeps the session and draft.
func (a *App) SaveEditor(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	e, err := a.Sessions.Get(a.currentUserID(r), sid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	saved, err := e.Save(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.log(r).Info().Str("partner_id", saved.ID).Msg("partner saved")
	a.json(w, http.StatusOK, sessionResponse{SessionID: sid, Editor: e.Snapshot(), Partner: &saved})
}

// ConfirmDelete deletes the partner and ends the session. When the store is
// unavailable the session stays open.
func (a *App) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	sid := chi.URLParam(r, "sid")
	e, err := a.Sessions.Get(userID, sid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	id := e.Snapshot().PartnerID
	if err := e.ConfirmDelete(r.Context()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.Sessions.Remove(userID, sid)
		}
		a.fail(w, r, err)
		return
	}
	a.Sessions.Remove(userID, sid)
	a.log(r).Info().Str("partner_id", id).Msg("partner deleted")
	a.json(w, http.StatusOK, map[string]any{"session_id": sid, "state": editor.StateClosed, "deleted": id != ""})
}

// CloseEditor discards the draft and forgets the session.
func (a *App) CloseEditor(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	sid := chi.URLParam(r, "sid")
	if _, err := a.Sessions.Get(userID, sid); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Sessions.Remove(userID, sid)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) withEditor(w http.ResponseWriter, r *http.Request, fn func(*editor.Editor) error) {
	sid := chi.URLParam(r, "sid")
	e, err := a.Sessions.Get(a.currentUserID(r), sid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := fn(e); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionResponse{SessionID: sid, Editor: e.Snapshot()})
}
