package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"supportraise/internal/dashboard"
	"supportraise/internal/domain"
	"supportraise/internal/editor"
	"supportraise/internal/middleware"
)

const maxBodyBytes = 1 << 20

// App holds the dependencies shared by the HTTP handlers.
type App struct {
	Store         domain.PartnerStore
	Dashboard     *dashboard.Service
	Sessions      *editor.Sessions
	Guard         editor.SaveGuard
	Logger        zerolog.Logger
	Location      *time.Location
	LetterMessage string
	Now           func() time.Time
}

// NewApp wires an App with in-process defaults. Callers override Guard,
// Sessions, Location and LetterMessage from configuration.
func NewApp(store domain.PartnerStore, logger zerolog.Logger) *App {
	return &App{
		Store:     store,
		Dashboard: dashboard.NewService(store),
		Sessions:  editor.NewSessions(0),
		Guard:     editor.NewMemoryGuard(),
		Logger:    logger,
		Location:  time.UTC,
		Now:       time.Now,
	}
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorPayload{"error": {Code: errCode, Message: message}})
}

// fail maps a domain or editor error onto the HTTP error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.json(w, http.StatusUnprocessableEntity, map[string]errorPayload{"error": {
			Code:    "validation_failed",
			Message: verr.Error(),
			Field:   verr.Field,
		}})
	case errors.Is(err, domain.ErrAuthRequired):
		a.error(w, http.StatusUnauthorized, "auth_required", "authentication required")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrDuplicateOperation):
		a.error(w, http.StatusConflict, "duplicate_operation", "a save for this partner is already in progress")
	case errors.Is(err, editor.ErrLocked),
		errors.Is(err, editor.ErrUnavailable),
		errors.Is(err, editor.ErrNoConfirmation),
		errors.Is(err, editor.ErrClosed):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrRemoteUnavailable):
		a.log(r).Warn().Err(err).Msg("store unavailable")
		a.error(w, http.StatusServiceUnavailable, "remote_unavailable", "the partner store is unavailable, try again")
	default:
		a.log(r).Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
