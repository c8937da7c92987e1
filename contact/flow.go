package contact

import (
	"context"
	"errors"
	"sync"
)

// Outcome is the result of the most recent submission.
type Outcome int

const (
	OutcomeIdle Outcome = iota
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrSubmitting is returned when Submit is called while a submission is in flight.
var ErrSubmitting = errors.New("contact: submission already in progress")

// Submitter delivers a payload to the form-handling backend.
type Submitter interface {
	Submit(ctx context.Context, p Payload) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, p Payload) error

// Submit calls fn(ctx, p).
func (fn SubmitterFunc) Submit(ctx context.Context, p Payload) error {
	return fn(ctx, p)
}

// Flow owns the state of one contact form: values, touched flags, the
// outcome of the last submission and the in-flight guard. All mutation goes
// through its methods; it is safe for concurrent use.
type Flow struct {
	mu         sync.Mutex
	formName   string
	submitter  Submitter
	values     Values
	touched    map[Field]bool
	outcome    Outcome
	submitting bool
	lastErr    error
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithFormName overrides the form-name discriminator (default "contact").
func WithFormName(name string) FlowOption {
	return func(f *Flow) {
		if name != "" {
			f.formName = name
		}
	}
}

// WithValues seeds the flow with values, e.g. when rebuilding it from a
// posted form. Seeded fields are not marked touched.
func WithValues(v Values) FlowOption {
	return func(f *Flow) {
		f.values = v
	}
}

// NewFlow returns an idle flow with empty values that submits through s.
func NewFlow(s Submitter, opts ...FlowOption) *Flow {
	f := &Flow{
		formName:  DefaultFormName,
		submitter: s,
		touched:   make(map[Field]bool, len(Fields)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// UpdateField sets the value of field and marks it touched. Unknown fields
// are ignored.
func (f *Flow) UpdateField(field Field, value string) {
	if _, ok := ParseField(string(field)); !ok {
		return
	}
	f.mu.Lock()
	f.values = f.values.With(field, value)
	f.touched[field] = true
	f.mu.Unlock()
}

// Touch marks field as interacted with without changing its value (blur).
func (f *Flow) Touch(field Field) {
	if _, ok := ParseField(string(field)); !ok {
		return
	}
	f.mu.Lock()
	f.touched[field] = true
	f.mu.Unlock()
}

// CanSubmit reports whether Submit would issue a request right now.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.submitting && Validate(f.values).Valid()
}

// Submit validates the current values and, if they pass and nothing is in
// flight, delivers them to the submitter. It blocks until the submitter
// returns. A submission already in flight makes Submit return ErrSubmitting
// without touching any state. Invalid values mark every field touched and
// return ErrInvalid without a request.
func (f *Flow) Submit(ctx context.Context) (Outcome, error) {
	p, err := f.begin()
	if err != nil {
		return f.Outcome(), err
	}
	return f.run(ctx, p)
}

// Result is delivered by SubmitAsync once the submission settles.
type Result struct {
	Outcome Outcome
	Err     error
}

// SubmitAsync claims the in-flight guard synchronously and performs the
// submission on a new goroutine. The returned channel receives exactly one
// Result. If the guard cannot be claimed (already submitting or invalid
// values) the error is returned and no goroutine is started.
func (f *Flow) SubmitAsync(ctx context.Context) (<-chan Result, error) {
	p, err := f.begin()
	if err != nil {
		return nil, err
	}
	done := make(chan Result, 1)
	go func() {
		outcome, err := f.run(ctx, p)
		done <- Result{Outcome: outcome, Err: err}
	}()
	return done, nil
}

// begin checks the preconditions and claims the in-flight guard.
func (f *Flow) begin() (Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return Payload{}, ErrSubmitting
	}
	if !Validate(f.values).Valid() {
		for _, field := range Fields {
			f.touched[field] = true
		}
		return Payload{}, ErrInvalid
	}
	f.submitting = true
	return Payload{FormName: f.formName, Values: f.values}, nil
}

// run performs the request for a claimed guard and records the outcome.
func (f *Flow) run(ctx context.Context, p Payload) (outcome Outcome, err error) {
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	err = f.submitter.Submit(ctx, p)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.outcome = OutcomeError
		f.lastErr = err
		return f.outcome, err
	}
	f.outcome = OutcomeSuccess
	f.lastErr = nil
	f.values = Values{}
	f.touched = make(map[Field]bool, len(Fields))
	return f.outcome, nil
}

// Outcome returns the result of the last completed submission.
func (f *Flow) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Submitting reports whether a submission is in flight.
func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Values returns the current field values.
func (f *Flow) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Snapshot returns a consistent copy of the flow's state for rendering.
func (f *Flow) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	touched := make(map[Field]bool, len(f.touched))
	for k, v := range f.touched {
		touched[k] = v
	}
	return State{
		FormName:   f.formName,
		Values:     f.values,
		Touched:    touched,
		Validation: Validate(f.values),
		Outcome:    f.outcome,
		Submitting: f.submitting,
		Err:        f.lastErr,
	}
}

// State is an immutable view of a Flow used by templates.
type State struct {
	FormName   string
	Values     Values
	Touched    map[Field]bool
	Validation ValidationState
	Outcome    Outcome
	Submitting bool
	Err        error
}

// NewState returns the state of a fresh, untouched form.
func NewState() State {
	return NewFlow(nil).Snapshot()
}

// ShowSuccess reports whether the success banner is visible.
func (s State) ShowSuccess() bool { return s.Outcome == OutcomeSuccess }

// ShowError reports whether the error banner is visible.
func (s State) ShowError() bool { return s.Outcome == OutcomeError }

// VisibleError returns the inline message for f. Errors stay hidden until
// the field has been touched.
func (s State) VisibleError(f Field) string {
	if !s.Touched[f] {
		return ""
	}
	msg, _ := s.Validation.Error(f)
	return msg
}

// CanSubmit mirrors Flow.CanSubmit for a snapshot.
func (s State) CanSubmit() bool {
	return !s.Submitting && s.Validation.Valid()
}
