package handlers

import (
	"net/http"

	"supportraise/internal/dashboard"
	"supportraise/internal/middleware"
)

// DashboardSummary loads the caller's partners and statistics and returns the
// derived summary with display strings for the request locale.
func (a *App) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Dashboard.Load(r.Context(), a.currentUserID(r), a.now())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	f := dashboard.NewFormatter(middleware.LocaleFromContext(r.Context()), a.Location)
	a.json(w, http.StatusOK, f.View(summary))
}
