package editor

import "supportraise/internal/domain"

// View is a read-only snapshot of an editor for rendering.
type View struct {
	State         State             `json:"state"`
	New           bool              `json:"new"`
	PartnerID     string            `json:"partner_id,omitempty"`
	Title         string            `json:"title"`
	Draft         Draft             `json:"draft"`
	Visible       domain.Visibility `json:"visible"`
	CanSave       bool              `json:"can_save"`
	CanToggleLock bool              `json:"can_toggle_lock"`
	CanStar       bool              `json:"can_star"`
	DeletePending bool              `json:"delete_pending"`
	Contact       *ContactLinks     `json:"contact,omitempty"`
}

// Snapshot captures the editor's current state.
func (e *Editor) Snapshot() View {
	contact := e.ContactLinks()

	e.mu.Lock()
	defer e.mu.Unlock()
	v := View{
		State:         e.state,
		New:           !e.existing,
		Title:         "New Partner",
		Draft:         e.draft,
		Visible:       e.draft.Status.Visibility(),
		CanSave:       e.state == StateUnlocked,
		CanToggleLock: e.existing && e.state != StateClosed,
		CanStar:       e.existing && e.state == StateUnlocked,
		DeletePending: e.deletePending,
		Contact:       contact,
	}
	if e.existing {
		v.PartnerID = e.id
		v.Title = e.draft.Name
	}
	return v
}
