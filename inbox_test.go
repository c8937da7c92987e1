package portfolio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekaspaulding/portfolio/contact"
)

type recordingSink struct {
	mu      sync.Mutex
	records []contact.Record
	err     error
}

func (s *recordingSink) Archive(_ context.Context, r contact.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return s.err
}

func validPayload() contact.Payload {
	return contact.Payload{
		FormName: "contact",
		Values:   contact.Values{Name: "  Ada ", Email: "ada@example.com", Message: "Hi"},
	}
}

func TestInboxReceive(t *testing.T) {
	store := setupTestStore(t)
	failing := &recordingSink{err: errors.New("bucket unreachable")}
	ok := &recordingSink{}
	in := NewInbox(store, []string{"contact"}, []contact.Sink{failing, ok}, nil)
	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	in.now = func() time.Time { return fixed }

	sub, err := in.Receive(context.Background(), validPayload(), Origin{RemoteIP: "198.51.100.7", UserAgent: "ua"})
	require.NoError(t, err, "a failing sink must not fail the submission")
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "  Ada ", sub.Name)
	assert.Equal(t, fixed, sub.CreatedAt)

	stored, err := store.GetSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", stored.RemoteIP)
	assert.Equal(t, "  Ada ", stored.Name)

	require.Len(t, ok.records, 1)
	assert.Equal(t, sub.ID, ok.records[0].ID)
	assert.Len(t, failing.records, 1)
}

func TestInboxStoresValuesAsValidated(t *testing.T) {
	store := setupTestStore(t)
	in := NewInbox(store, []string{"contact"}, nil, nil)
	ctx := context.Background()

	// Whitespace counts as a value, so the record keeps exactly what passed
	// validation and never ends up with an empty required field.
	p := contact.Payload{
		FormName: "contact",
		Values:   contact.Values{Name: "   ", Email: "a@b.com", Message: "\n hi \n"},
	}
	require.True(t, contact.Validate(p.Values).Valid())

	sub, err := in.Receive(ctx, p, Origin{})
	require.NoError(t, err)

	stored, err := store.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Values.Name, stored.Name)
	assert.Equal(t, p.Values.Email, stored.Email)
	assert.Equal(t, p.Values.Message, stored.Message)
	assert.NotEmpty(t, stored.Name)
}

func TestInboxRejects(t *testing.T) {
	store := setupTestStore(t)
	sink := &recordingSink{}
	in := NewInbox(store, []string{"contact"}, []contact.Sink{sink}, nil)
	ctx := context.Background()

	p := validPayload()
	p.FormName = "other"
	_, err := in.Receive(ctx, p, Origin{})
	assert.ErrorIs(t, err, ErrUnknownForm)

	p = validPayload()
	p.Values.Message = ""
	_, err = in.Receive(ctx, p, Origin{})
	var verr *contact.ValidationError
	require.ErrorAs(t, err, &verr)
	msg, _ := verr.State.Error(contact.FieldMessage)
	assert.Equal(t, contact.MsgRequired, msg)
	assert.ErrorIs(t, err, contact.ErrInvalid)

	n, err := store.CountSubmissions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, sink.records)
}

func TestInboxSubmitterCarriesOrigin(t *testing.T) {
	store := setupTestStore(t)
	in := NewInbox(store, []string{"contact"}, nil, nil)
	s := in.Submitter(originFromContext)

	ctx := withOrigin(context.Background(), Origin{RemoteIP: "192.0.2.10", UserAgent: "firefox"})
	require.NoError(t, s.Submit(ctx, validPayload()))

	subs, err := store.ListSubmissions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "192.0.2.10", subs[0].RemoteIP)
	assert.Equal(t, "firefox", subs[0].UserAgent)
}
