package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/derekaspaulding/portfolio/contact"
	"github.com/derekaspaulding/portfolio/metrics"
)

// ErrUnknownForm is returned for a form-name the inbox does not accept.
var ErrUnknownForm = errors.New("portfolio: unknown form")

// Inbox is the site's form backend. It accepts urlencoded submissions
// discriminated by form-name, validates them with the same rules the contact
// page uses, stores them and hands a copy to every sink.
type Inbox struct {
	store  *Store
	forms  map[string]struct{}
	sinks  []contact.Sink
	logger echo.Logger
	now    func() time.Time
}

// NewInbox returns an Inbox that accepts the named forms.
func NewInbox(store *Store, forms []string, sinks []contact.Sink, logger echo.Logger) *Inbox {
	in := &Inbox{
		store:  store,
		forms:  make(map[string]struct{}, len(forms)),
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
	}
	for _, f := range forms {
		in.forms[f] = struct{}{}
	}
	return in
}

// Accepts reports whether form is a registered form name.
func (in *Inbox) Accepts(form string) bool {
	_, ok := in.forms[form]
	return ok
}

// Origin describes where a submission came from.
type Origin struct {
	RemoteIP  string
	UserAgent string
}

// Receive validates and stores a submission. It returns ErrUnknownForm for
// an unregistered form name and a *contact.ValidationError for invalid
// values. Sink failures are logged and never fail the submission.
func (in *Inbox) Receive(ctx context.Context, p contact.Payload, origin Origin) (Submission, error) {
	form := strings.TrimSpace(p.FormName)
	if !in.Accepts(form) {
		metrics.ObserveSubmission("unknown", metrics.ResultUnknownForm)
		return Submission{}, fmt.Errorf("%w: %q", ErrUnknownForm, form)
	}
	state := contact.Validate(p.Values)
	if !state.Valid() {
		metrics.ObserveSubmission(form, metrics.ResultInvalid)
		return Submission{}, &contact.ValidationError{State: state}
	}

	sub := Submission{
		ID:        uuid.NewString(),
		FormName:  form,
		Name:      p.Values.Name,
		Email:     p.Values.Email,
		Message:   p.Values.Message,
		RemoteIP:  origin.RemoteIP,
		UserAgent: origin.UserAgent,
		CreatedAt: in.now().UTC(),
	}
	if err := in.store.SaveSubmission(ctx, sub); err != nil {
		metrics.ObserveSubmission(form, metrics.ResultError)
		return Submission{}, fmt.Errorf("portfolio: save submission: %w", err)
	}
	metrics.ObserveSubmission(form, metrics.ResultAccepted)

	for _, s := range in.sinks {
		if err := s.Archive(ctx, sub); err != nil {
			metrics.ArchiveFailures.Inc()
			if in.logger != nil {
				in.logger.Errorf("archive submission %s: %v", sub.ID, err)
			}
		}
	}
	return sub, nil
}

// Submitter adapts the inbox to contact.Submitter so the contact page can
// deliver to it in-process.
func (in *Inbox) Submitter(origin func(ctx context.Context) Origin) contact.Submitter {
	return contact.SubmitterFunc(func(ctx context.Context, p contact.Payload) error {
		var o Origin
		if origin != nil {
			o = origin(ctx)
		}
		_, err := in.Receive(ctx, p, o)
		return err
	})
}
