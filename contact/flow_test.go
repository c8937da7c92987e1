package contact

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillValid(f *Flow) {
	f.UpdateField(FieldName, "Ada")
	f.UpdateField(FieldEmail, "ada@example.com")
	f.UpdateField(FieldMessage, "hello there")
}

func TestFlowStartsIdle(t *testing.T) {
	f := NewFlow(nil)
	s := f.Snapshot()

	assert.Equal(t, OutcomeIdle, s.Outcome)
	assert.False(t, s.Submitting)
	assert.True(t, s.Values.IsZero())
	assert.False(t, s.ShowSuccess())
	assert.False(t, s.ShowError())
	for _, field := range Fields {
		assert.Empty(t, s.VisibleError(field), "untouched %s must not show errors", field)
	}
}

func TestFlowUpdateFieldMarksTouched(t *testing.T) {
	f := NewFlow(nil)
	f.UpdateField(FieldEmail, "nope")

	s := f.Snapshot()
	assert.Equal(t, "nope", s.Values.Email)
	assert.True(t, s.Touched[FieldEmail])
	assert.Equal(t, MsgInvalidEmail, s.VisibleError(FieldEmail))
	assert.Empty(t, s.VisibleError(FieldName), "name is invalid but untouched")
}

func TestFlowUpdateUnknownFieldIgnored(t *testing.T) {
	f := NewFlow(nil)
	f.UpdateField(Field("phone"), "555")

	s := f.Snapshot()
	assert.True(t, s.Values.IsZero())
	assert.Empty(t, s.Touched)
}

func TestFlowSubmitSuccess(t *testing.T) {
	var got Payload
	f := NewFlow(SubmitterFunc(func(ctx context.Context, p Payload) error {
		got = p
		return nil
	}))
	fillValid(f)

	outcome, err := f.Submit(context.Background())
	require.NoError(t, err)

	s := f.Snapshot()
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.True(t, s.ShowSuccess())
	assert.False(t, s.ShowError())
	assert.True(t, s.Values.IsZero())
	assert.Empty(t, s.Touched)
	assert.False(t, s.Submitting)
	assert.Equal(t, Payload{FormName: DefaultFormName, Values: Values{
		Name: "Ada", Email: "ada@example.com", Message: "hello there",
	}}, got)
}

func TestFlowSubmitFailurePreservesValues(t *testing.T) {
	boom := errors.New("network down")
	f := NewFlow(SubmitterFunc(func(ctx context.Context, p Payload) error {
		return boom
	}))
	fillValid(f)
	before := f.Values()

	outcome, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, boom)

	s := f.Snapshot()
	assert.Equal(t, OutcomeError, outcome)
	assert.True(t, s.ShowError())
	assert.False(t, s.ShowSuccess())
	assert.Equal(t, before, s.Values)
	assert.False(t, s.Submitting)
	assert.ErrorIs(t, s.Err, boom)
}

func TestFlowErrorThenSuccessClearsError(t *testing.T) {
	fail := true
	f := NewFlow(SubmitterFunc(func(ctx context.Context, p Payload) error {
		if fail {
			return errors.New("502")
		}
		return nil
	}))
	fillValid(f)

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, OutcomeError, f.Outcome())

	fail = false
	_, err = f.Submit(context.Background())
	require.NoError(t, err)

	s := f.Snapshot()
	assert.True(t, s.ShowSuccess())
	assert.False(t, s.ShowError())
	assert.NoError(t, s.Err)
}

func TestFlowSubmitInvalidBlocked(t *testing.T) {
	var calls int32
	f := NewFlow(SubmitterFunc(func(ctx context.Context, p Payload) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	f.UpdateField(FieldEmail, "a@b.com")
	f.UpdateField(FieldMessage, "hi")

	outcome, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, OutcomeIdle, outcome)
	assert.Zero(t, atomic.LoadInt32(&calls))

	s := f.Snapshot()
	assert.Equal(t, MsgRequired, s.VisibleError(FieldName), "submit touches every field")
	assert.False(t, s.Submitting)
}

func TestFlowSubmitWhileSubmittingHasNoEffect(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})
	f := NewFlow(SubmitterFunc(func(ctx context.Context, p Payload) error {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return nil
	}))
	fillValid(f)

	done, err := f.SubmitAsync(context.Background())
	require.NoError(t, err)
	<-started

	before := f.Snapshot()
	assert.True(t, before.Submitting)
	assert.False(t, before.CanSubmit())

	outcome, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitting)
	assert.Equal(t, OutcomeIdle, outcome)
	_, err = f.SubmitAsync(context.Background())
	assert.ErrorIs(t, err, ErrSubmitting)

	after := f.Snapshot()
	assert.Equal(t, before.Values, after.Values)
	assert.Equal(t, before.Outcome, after.Outcome)

	close(release)
	select {
	case res := <-done:
		assert.NoError(t, res.Err)
		assert.Equal(t, OutcomeSuccess, res.Outcome)
	case <-time.After(2 * time.Second):
		t.Fatal("submission did not settle")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, f.Submitting())
}

func TestFlowCanceledContextIsFailure(t *testing.T) {
	f := NewFlow(SubmitterFunc(func(ctx context.Context, p Payload) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	fillValid(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := f.Submit(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeError, outcome)
	assert.False(t, f.Submitting())
	assert.Equal(t, "ada@example.com", f.Values().Email)
}

func TestFlowCustomFormName(t *testing.T) {
	var got string
	f := NewFlow(SubmitterFunc(func(ctx context.Context, p Payload) error {
		got = p.FormName
		return nil
	}), WithFormName("hire-me"))
	fillValid(f)

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hire-me", got)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "idle", OutcomeIdle.String())
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "error", OutcomeError.String())
}
