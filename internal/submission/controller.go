// Package submission implements the multi-step idea submission form: a flat
// field map, a clamped step index, required-field validation, and the
// idle → submitting → success/error lifecycle.
package submission

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ideafactory/ideas/internal/events"
	"github.com/ideafactory/ideas/internal/idgen"
	"github.com/ideafactory/ideas/internal/model"
)

// DefaultResetDelay is how long a successful submission stays visible before
// the form is cleared.
const DefaultResetDelay = 3 * time.Second

var (
	// ErrInvalidForm is returned by Submit when a required field is blank.
	ErrInvalidForm = errors.New("submission: required fields missing")
	// ErrSubmitInProgress is returned by Submit while a submission is outstanding.
	ErrSubmitInProgress = errors.New("submission: already submitting")
	// ErrAlreadySubmitted is returned by Submit after success, until the form resets.
	ErrAlreadySubmitted = errors.New("submission: already submitted")
)

// Submitter sends a completed proposal to the remote API.
type Submitter interface {
	SubmitIdea(ctx context.Context, p *model.IdeaProposal) (*model.Idea, error)
}

// stopper is the part of *time.Timer the controller uses.
type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Option configures a Controller.
type Option func(*Controller)

// WithResetDelay sets the delay between success and the form reset.
func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) { c.resetDelay = d }
}

// WithPublisher sets the publisher notified of sent submissions.
func WithPublisher(p events.Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithLogger sets the controller's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller holds the state of one submission form. It is safe for
// concurrent use.
type Controller struct {
	submitter  Submitter
	publisher  events.Publisher
	logger     *zap.Logger
	resetDelay time.Duration
	after      afterFunc
	newRef     func() (string, error)

	mu      sync.Mutex
	fields  map[string]string
	step    int
	status  model.SubmitStatus
	lastErr error
	timer   stopper
	// gen advances on every reset so a stale timer cannot clear a newer form.
	gen uint64
}

// NewController creates an empty form at step 0 that submits through s.
func NewController(s Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter:  s,
		publisher:  &events.NoopPublisher{},
		logger:     zap.NewNop(),
		resetDelay: DefaultResetDelay,
		after:      realAfterFunc,
		newRef:     idgen.Draft,
		fields:     emptyFields(),
		status:     model.SubmitIdle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func emptyFields() map[string]string {
	m := make(map[string]string, len(model.SubmissionFields))
	for _, f := range model.SubmissionFields {
		m[f] = ""
	}
	return m
}

// SetField updates one form field.
func (c *Controller) SetField(name, value string) error {
	if !model.IsSubmissionField(name) {
		return fmt.Errorf("submission: unknown field %q", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields[name] = value
	return nil
}

// Field returns the current value of one field.
func (c *Controller) Field(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields[name]
}

// Fields returns a copy of all field values.
func (c *Controller) Fields() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.fields)
}

// Step returns the zero-based current step.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// StepCount returns the number of form steps.
func (c *Controller) StepCount() int {
	return len(model.FormSteps)
}

// CurrentStep returns the descriptor of the current step.
func (c *Controller) CurrentStep() model.FormStep {
	return model.FormSteps[c.Step()]
}

// NextStep advances one step. It is a no-op on the last step.
func (c *Controller) NextStep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step < len(model.FormSteps)-1 {
		c.step++
	}
}

// PrevStep goes back one step. It is a no-op on the first step.
func (c *Controller) PrevStep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > 0 {
		c.step--
	}
}

func (c *Controller) CanGoNext() bool { return c.Step() < len(model.FormSteps)-1 }

func (c *Controller) CanGoPrev() bool { return c.Step() > 0 }

// IsValid reports whether every required field is non-blank.
func (c *Controller) IsValid() bool {
	return len(c.Missing()) == 0
}

// Missing returns the required fields that are still blank, in form order.
func (c *Controller) Missing() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, f := range model.RequiredFields {
		if strings.TrimSpace(c.fields[f]) == "" {
			out = append(out, f)
		}
	}
	return out
}

func (c *Controller) validationError() error {
	missing := c.Missing()
	if len(missing) == 0 {
		return nil
	}
	ve := &model.ValidationError{}
	for _, f := range missing {
		ve.Errors = append(ve.Errors, model.FieldError{Field: f, Message: "is required"})
	}
	return ve
}

// Status returns the submission status and, when it is SubmitError, the
// error of the failed attempt.
func (c *Controller) Status() (model.SubmitStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.lastErr
}

// Submit sends the form. An invalid form is refused without a status
// change. On success the status becomes SubmitSuccess and the fields are
// cleared after the reset delay; on failure the status becomes SubmitError
// and the fields are kept for a retry.
func (c *Controller) Submit(ctx context.Context) (*model.Idea, error) {
	if err := c.validationError(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}

	c.mu.Lock()
	switch c.status {
	case model.SubmitSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	case model.SubmitSuccess:
		c.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	c.status = model.SubmitSubmitting
	c.lastErr = nil
	snapshot := maps.Clone(c.fields)
	gen := c.gen
	c.mu.Unlock()

	ref, err := c.newRef()
	if err != nil {
		c.logger.Warn("generating client ref", zap.Error(err))
	}
	proposal := ToProposal(snapshot, ref)

	created, err := c.submitter.SubmitIdea(ctx, proposal)

	c.mu.Lock()
	if gen != c.gen {
		// Reset while the request was in flight; the result belongs to a
		// form that no longer exists.
		c.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("submitting idea: %w", err)
		}
		return created, nil
	}
	if err != nil {
		c.status = model.SubmitError
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Warn("idea submission failed", zap.String("ref", ref), zap.Error(err))
		return nil, fmt.Errorf("submitting idea: %w", err)
	}
	c.status = model.SubmitSuccess
	c.timer = c.after(c.resetDelay, func() { c.clearAfterSuccess(gen) })
	c.mu.Unlock()

	var id string
	if created != nil && created.ID != 0 {
		id = strconv.FormatInt(created.ID, 10)
	}
	c.logger.Info("idea submitted", zap.String("ref", ref), zap.String("id", id))
	if err := c.publisher.Publish(ctx, events.TopicSubmissionSent, events.SubmissionSent{
		ClientRef: ref,
		Title:     proposal.Title,
		IdeaID:    id,
	}); err != nil {
		c.logger.Warn("publishing submission event", zap.Error(err))
	}
	return created, nil
}

// clearAfterSuccess empties the fields and returns to idle. The step is left
// where it was.
func (c *Controller) clearAfterSuccess(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.status != model.SubmitSuccess {
		return
	}
	c.fields = emptyFields()
	c.status = model.SubmitIdle
	c.timer = nil
	c.gen++
}

// Reset clears every field, returns to step 0 and idle, and cancels a
// pending post-success reset.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.fields = emptyFields()
	c.step = 0
	c.status = model.SubmitIdle
	c.lastErr = nil
	c.gen++
}

// Close cancels a pending post-success reset.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
