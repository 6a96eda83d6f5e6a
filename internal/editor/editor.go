// Package editor holds the draft-editing state machine for a single partner.
//
// An Editor starts locked when opened on an existing partner and unlocked for
// a new one. Field edits, lock and star toggles only touch the local draft;
// the store is called once per Save and once per confirmed delete.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"supportraise/internal/domain"
)

// State is the lifecycle state of an Editor.
type State string

const (
	StateLocked   State = "locked"
	StateUnlocked State = "unlocked"
	StateClosed   State = "closed"
)

var (
	ErrLocked         = errors.New("editor: editing is locked")
	ErrUnavailable    = errors.New("editor: action unavailable for a new partner")
	ErrNoConfirmation = errors.New("editor: delete has not been requested")
	ErrClosed         = errors.New("editor: closed")
)

// Draft is the in-progress copy of a partner. Zero amounts mean blank.
type Draft struct {
	Name            string        `json:"name"`
	Email           *string       `json:"email"`
	Number          *string       `json:"number"`
	Status          domain.Status `json:"status"`
	Notes           string        `json:"notes"`
	NextStepDate    *time.Time    `json:"next_step_date"`
	PledgedAmount   float64       `json:"pledged_amount"`
	ConfirmedAmount float64       `json:"confirmed_amount"`
	ConfirmedDate   *time.Time    `json:"confirmed_date"`
	Saved           bool          `json:"saved"`
}

func draftFrom(p *domain.Partner) Draft {
	if p == nil {
		return Draft{Status: domain.StatusToAsk}
	}
	d := Draft{
		Name:          p.Name,
		Email:         p.Email,
		Number:        p.Number,
		Status:        p.Status,
		Notes:         p.Notes,
		NextStepDate:  p.NextStepDate,
		ConfirmedDate: p.ConfirmedDate,
		Saved:         p.Saved,
	}
	if d.Status == "" {
		d.Status = domain.StatusToAsk
	}
	if p.PledgedAmount != nil {
		d.PledgedAmount = *p.PledgedAmount
	}
	if p.ConfirmedAmount != nil {
		d.ConfirmedAmount = *p.ConfirmedAmount
	}
	return d
}

// Option configures an Editor.
type Option func(*Editor)

// WithGuard sets the guard that keeps one save in flight per record.
func WithGuard(g SaveGuard) Option {
	return func(e *Editor) { e.guard = g }
}

// WithIDGenerator replaces the UUID generator used for new partners.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) { e.newID = gen }
}

// WithLetterMessage sets the body used for mailto contact links.
func WithLetterMessage(msg string) Option {
	return func(e *Editor) { e.letter = msg }
}

// Editor manages one draft partner for one user.
type Editor struct {
	mu sync.Mutex

	userID   string
	store    domain.PartnerWriter
	guard    SaveGuard
	newID    func() string
	letter   string
	id       string
	existing bool

	state         State
	draft         Draft
	deletePending bool
	busy          bool
}

// New opens an editor for userID on partner, or on a blank partner when nil.
func New(userID string, partner *domain.Partner, store domain.PartnerWriter, opts ...Option) *Editor {
	e := &Editor{
		userID: userID,
		store:  store,
		guard:  NewMemoryGuard(),
		newID:  uuid.NewString,
		state:  StateUnlocked,
		draft:  draftFrom(partner),
	}
	if partner != nil {
		e.id = partner.ID
		e.existing = true
		e.state = StateLocked
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State reports the current lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// ToggleLock switches an existing partner between locked and unlocked
// without discarding the draft.
func (e *Editor) ToggleLock() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return ErrClosed
	}
	if !e.existing {
		return ErrUnavailable
	}
	if e.state == StateLocked {
		e.state = StateUnlocked
	} else {
		e.state = StateLocked
	}
	return nil
}

// ToggleStar flips the saved flag. It follows the lock flag: only an
// unlocked, existing partner can be starred.
func (e *Editor) ToggleStar() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	if !e.existing {
		return ErrUnavailable
	}
	e.draft.Saved = !e.draft.Saved
	return nil
}

// Apply validates p against the draft and applies it atomically. Status is
// applied first so the remaining fields are checked against the new status.
// Fields hidden by a status change keep their draft values.
func (e *Editor) Apply(p Patch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	next, err := p.apply(e.draft)
	if err != nil {
		return err
	}
	e.draft = next
	return nil
}

// Save sends the full draft as one upsert. A new partner gets its ID on the
// first save and keeps it for later saves in the same editor.
func (e *Editor) Save(ctx context.Context) (domain.Partner, error) {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return domain.Partner{}, err
	}
	if e.userID == "" {
		e.mu.Unlock()
		return domain.Partner{}, domain.ErrAuthRequired
	}
	if e.busy {
		e.mu.Unlock()
		return domain.Partner{}, domain.ErrDuplicateOperation
	}
	if e.id == "" {
		e.id = e.newID()
	}
	record := buildRecord(e.id, e.draft)
	e.busy = true
	e.mu.Unlock()

	err := e.withGuard(ctx, record.ID, func() error {
		return e.store.UpsertPartner(ctx, e.userID, record)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if err != nil {
		return domain.Partner{}, fmt.Errorf("editor: save partner: %w", err)
	}
	e.existing = true
	return record, nil
}

// RequestDelete opens the delete confirmation.
func (e *Editor) RequestDelete() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return ErrClosed
	}
	e.deletePending = true
	return nil
}

// CancelDelete dismisses the confirmation and leaves the editor open.
func (e *Editor) CancelDelete() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return ErrClosed
	}
	e.deletePending = false
	return nil
}

// ConfirmDelete deletes the partner and closes the editor. A partner that was
// never saved closes without a store call. When the store is unreachable the
// editor stays open with its draft.
func (e *Editor) ConfirmDelete(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return ErrClosed
	}
	if !e.deletePending {
		e.mu.Unlock()
		return ErrNoConfirmation
	}
	e.deletePending = false
	if !e.existing {
		e.state = StateClosed
		e.mu.Unlock()
		return nil
	}
	if e.userID == "" {
		e.mu.Unlock()
		return domain.ErrAuthRequired
	}
	if e.busy {
		e.mu.Unlock()
		return domain.ErrDuplicateOperation
	}
	id := e.id
	e.busy = true
	e.mu.Unlock()

	err := e.store.DeletePartner(ctx, e.userID, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("editor: delete partner: %w", err)
	}
	e.state = StateClosed
	if err != nil {
		return fmt.Errorf("editor: delete partner: %w", err)
	}
	return nil
}

// Close discards the draft.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateClosed
	e.deletePending = false
}

func (e *Editor) editableLocked() error {
	switch e.state {
	case StateClosed:
		return ErrClosed
	case StateLocked:
		return ErrLocked
	}
	return nil
}

func (e *Editor) withGuard(ctx context.Context, partnerID string, fn func() error) error {
	if e.guard == nil {
		return fn()
	}
	release, err := e.guard.Acquire(ctx, e.userID+":"+partnerID)
	if err != nil {
		return err
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()
	return fn()
}

// buildRecord turns a draft into the record sent to the store. Non-positive
// amounts and empty contact fields become nil, and confirmation fields are
// only kept for confirmed partners.
func buildRecord(id string, d Draft) domain.Partner {
	p := domain.Partner{
		ID:            id,
		Name:          d.Name,
		Email:         optionalString(d.Email),
		Number:        optionalString(d.Number),
		Status:        d.Status,
		NextStepDate:  d.NextStepDate,
		PledgedAmount: positive(d.PledgedAmount),
		Notes:         d.Notes,
		Saved:         d.Saved,
	}
	if d.Status == domain.StatusConfirmed {
		p.ConfirmedAmount = positive(d.ConfirmedAmount)
		p.ConfirmedDate = d.ConfirmedDate
	}
	return p
}

func positive(v float64) *float64 {
	if v > 0 {
		return &v
	}
	return nil
}

func optionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
