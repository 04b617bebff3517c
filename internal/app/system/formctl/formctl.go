// Package formctl runs the create/edit modal lifecycle for one submission:
//
//	closed → open(draft) → submitting → closed        on success
//	                                  → open(draft)   on validation or backend failure
//
// A controller is not safe for concurrent use; handlers build one per request.
package formctl

import (
	"context"
	"fmt"

	"github.com/dalemusser/opsconsole/internal/app/system/inputval"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"go.uber.org/zap"
)

type State string

const (
	StateClosed     State = "closed"
	StateOpen       State = "open"
	StateSubmitting State = "submitting"
)

type Outcome int

const (
	// Saved: persisted, closed, reloaded.
	Saved Outcome = iota
	// Invalid: a required field is missing; nothing was persisted.
	Invalid
	// Failed: the backend rejected the write.
	Failed
	// Panicked: persist or reload panicked.
	Panicked
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Invalid:
		return "invalid"
	case Failed:
		return "failed"
	case Panicked:
		return "panicked"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result describes one Submit.
type Result struct {
	Outcome Outcome
	Notice  *notice.Notice
	// Fields lists validation failures when Outcome is Invalid.
	Fields []inputval.FieldError
	// Err is the persist error when Outcome is Failed, or the reload error
	// when the save succeeded but the list could not be re-fetched.
	Err error
}

// Options names the action for notices.
type Options struct {
	// Modal is the modal flag this controller drives, e.g. "create_geofence".
	Modal string
	// Action completes "Failed to …", e.g. "create geofence".
	Action string
	// Success is the banner after a save, e.g. "Geofence created".
	Success string
	// Reload completes "Failed to …" when the post-save reload fails.
	// Defaults to "reload list".
	Reload string

	Notices notice.Factory
	Log     *zap.Logger

	// Check validates the draft. Defaults to inputval.Validate.
	Check func(draft any) *inputval.Result
}

type Controller[D any] struct {
	opts   Options
	state  State
	draft  *D
	notice *notice.Notice
}

func New[D any](opts Options) *Controller[D] {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Check == nil {
		opts.Check = inputval.Validate
	}
	if opts.Reload == "" {
		opts.Reload = "reload list"
	}
	return &Controller[D]{opts: opts, state: StateClosed}
}

// Open shows the modal with draft as its working copy.
func (c *Controller[D]) Open(draft D) {
	c.draft = &draft
	c.state = StateOpen
}

// Close hides the modal and discards the draft.
func (c *Controller[D]) Close() {
	c.draft = nil
	c.state = StateClosed
}

func (c *Controller[D]) State() State           { return c.state }
func (c *Controller[D]) IsOpen() bool           { return c.state != StateClosed }
func (c *Controller[D]) Modal() string          { return c.opts.Modal }
func (c *Controller[D]) Notice() *notice.Notice { return c.notice }

// Draft returns the retained draft, if any.
func (c *Controller[D]) Draft() (D, bool) {
	if c.draft == nil {
		var zero D
		return zero, false
	}
	return *c.draft, true
}

// Surface is what a controller renders its state onto.
type Surface interface {
	Form(modal string, open bool, draft any, n *notice.Notice)
}

// RenderTo copies the modal flag, the retained draft and the notice onto s.
func (c *Controller[D]) RenderTo(s Surface) {
	var draft any
	if c.draft != nil {
		draft = *c.draft
	}
	s.Form(c.opts.Modal, c.IsOpen(), draft, c.notice)
}

// Submit validates draft, persists it and, on success, reloads once.
// reload may be nil.
func (c *Controller[D]) Submit(
	ctx context.Context,
	draft D,
	persist func(context.Context, D) error,
	reload func(context.Context) error,
) (res Result) {
	c.Open(draft)
	c.state = StateSubmitting

	defer func() {
		if r := recover(); r != nil {
			c.opts.Log.Error("form submit panicked",
				zap.String("action", c.opts.Action),
				zap.Any("panic", r))
			c.state = StateOpen
			c.notice = c.opts.Notices.Unexpected()
			res = Result{Outcome: Panicked, Notice: c.notice}
		}
	}()

	if v := c.opts.Check(draft); v.HasErrors() {
		c.state = StateOpen
		c.notice = c.opts.Notices.Error(v.First())
		return Result{Outcome: Invalid, Notice: c.notice, Fields: v.Errors}
	}

	if err := persist(ctx, draft); err != nil {
		c.opts.Log.Error(c.opts.Action+" failed", zap.Error(err))
		c.state = StateOpen
		c.notice = c.opts.Notices.Failed(c.opts.Action)
		return Result{Outcome: Failed, Notice: c.notice, Err: err}
	}

	c.Close()
	c.notice = c.opts.Notices.Success(c.opts.Success)
	res = Result{Outcome: Saved, Notice: c.notice}

	if reload != nil {
		if err := reload(ctx); err != nil {
			c.opts.Log.Warn("reload after save failed",
				zap.String("action", c.opts.Action), zap.Error(err))
			c.notice = c.opts.Notices.Failed(c.opts.Reload)
			res.Notice = c.notice
			res.Err = err
		}
	}
	return res
}
