package editor

import (
	"net/url"
	"strings"
)

// ContactLinks are the call and email shortcuts for a saved partner.
type ContactLinks struct {
	Tel    string `json:"tel,omitempty"`
	Mailto string `json:"mailto,omitempty"`
}

// ContactLinks builds tel and mailto links from the draft. New partners get
// none, and a link is left empty when its field is missing.
func (e *Editor) ContactLinks() *ContactLinks {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.existing {
		return nil
	}
	links := &ContactLinks{}
	if e.draft.Number != nil && *e.draft.Number != "" {
		links.Tel = "tel:" + strings.ReplaceAll(*e.draft.Number, " ", "")
	}
	if e.draft.Email != nil && *e.draft.Email != "" {
		q := url.Values{}
		q.Set("subject", "Support Raising Letter - "+e.draft.Name)
		q.Set("body", e.letter)
		links.Mailto = "mailto:" + *e.draft.Email + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
	}
	return links
}
