// Package pagestate is the JSON envelope every console list and mutation
// returns. A page moves idle → loading → loaded on a read, and
// loaded → submitting → loaded around a mutation. After a successful
// mutation Items holds the freshly reloaded list; after a failed one
// Items is left out and Reloaded is false, so clients keep what they have.
package pagestate

import (
	"errors"
	"fmt"

	"github.com/dalemusser/opsconsole/internal/app/system/notice"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseLoaded     Phase = "loaded"
	PhaseSubmitting Phase = "submitting"
)

// ErrBadTransition is returned when a transition is not allowed from the current phase.
var ErrBadTransition = errors.New("invalid page state transition")

type Page[T any] struct {
	Phase      Phase           `json:"phase"`
	Items      []T             `json:"items,omitempty"`
	Reloaded   bool            `json:"reloaded"`
	SelectedID string          `json:"selected_id,omitempty"`
	Modals     map[string]bool `json:"modals,omitempty"`
	Draft      any             `json:"draft,omitempty"`
	Notice     *notice.Notice  `json:"notice,omitempty"`
	Metrics    any             `json:"metrics,omitempty"`
}

// New returns an idle page.
func New[T any]() *Page[T] {
	return &Page[T]{Phase: PhaseIdle}
}

func (p *Page[T]) move(from []Phase, to Phase) error {
	for _, f := range from {
		if p.Phase == f {
			p.Phase = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", ErrBadTransition, p.Phase, to)
}

// BeginLoad starts a read. Allowed from idle, or from loaded for a refresh.
func (p *Page[T]) BeginLoad() error {
	return p.move([]Phase{PhaseIdle, PhaseLoaded}, PhaseLoading)
}

// Loaded completes a read with the authoritative list.
func (p *Page[T]) Loaded(items []T) error {
	if err := p.move([]Phase{PhaseLoading}, PhaseLoaded); err != nil {
		return err
	}
	p.setItems(items)
	return nil
}

// LoadFailed abandons a read; the page returns to idle with n.
func (p *Page[T]) LoadFailed(n *notice.Notice) error {
	if err := p.move([]Phase{PhaseLoading}, PhaseIdle); err != nil {
		return err
	}
	p.Notice = n
	return nil
}

// BeginSubmit starts a mutation. An idle page is treated as already loaded,
// since mutation endpoints do not read the list first.
func (p *Page[T]) BeginSubmit() error {
	if p.Phase == PhaseIdle {
		p.Phase = PhaseLoaded
	}
	return p.move([]Phase{PhaseLoaded}, PhaseSubmitting)
}

// Reload records the list fetched after a successful mutation.
// It is only valid while submitting.
func (p *Page[T]) Reload(items []T) error {
	if p.Phase != PhaseSubmitting {
		return fmt.Errorf("%w: reload while %s", ErrBadTransition, p.Phase)
	}
	p.setItems(items)
	return nil
}

// EndSubmit finishes a mutation, successful or not.
func (p *Page[T]) EndSubmit() error {
	return p.move([]Phase{PhaseSubmitting}, PhaseLoaded)
}

// Form copies a form controller's visible state onto the page.
func (p *Page[T]) Form(modal string, open bool, draft any, n *notice.Notice) {
	if p.Modals == nil {
		p.Modals = map[string]bool{}
	}
	p.Modals[modal] = open
	p.Draft = draft
	if n != nil {
		p.Notice = n
	}
}

func (p *Page[T]) setItems(items []T) {
	if items == nil {
		items = []T{}
	}
	p.Items = items
	p.Reloaded = true
}
