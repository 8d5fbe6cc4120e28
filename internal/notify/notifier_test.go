package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name   string
	err    error
	titles []string
}

func (f *fakeSender) Send(_ context.Context, title, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.titles = append(f.titles, title)
	return nil
}

func (f *fakeSender) Name() string { return f.name }

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestNotifyFiltersByEventType(t *testing.T) {
	sender := &fakeSender{name: "telegram"}
	n := NewNotifier([]Sender{sender}, []string{"opportunity"}, discard())
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, "opportunity", "Deal alert", "RTX 4090"))
	require.NoError(t, n.Notify(ctx, "archive", "Archive done", "42 runs"))

	assert.Equal(t, []string{"Deal alert"}, sender.titles)
}

func TestNotifyAllowsEverythingWithoutEventList(t *testing.T) {
	sender := &fakeSender{name: "discord"}
	n := NewNotifier([]Sender{sender}, nil, discard())

	require.NoError(t, n.Notify(context.Background(), "anything", "Hello", "world"))
	assert.Len(t, sender.titles, 1)
}

func TestNotifyAllBypassesFilter(t *testing.T) {
	sender := &fakeSender{name: "telegram"}
	n := NewNotifier([]Sender{sender}, []string{"opportunity"}, discard())

	require.NoError(t, n.NotifyAll(context.Background(), "Shutdown", "bye"))
	assert.Len(t, sender.titles, 1)
}

func TestDispatchContinuesPastFailingSender(t *testing.T) {
	bad := &fakeSender{name: "telegram", err: errors.New("api down")}
	good := &fakeSender{name: "discord"}
	n := NewNotifier([]Sender{bad, good}, nil, discard())

	err := n.Notify(context.Background(), "opportunity", "Deal alert", "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
	assert.Len(t, good.titles, 1)
}

func TestNotifyNoSendersIsNoop(t *testing.T) {
	n := NewNotifier(nil, nil, discard())
	assert.NoError(t, n.Notify(context.Background(), "opportunity", "t", "m"))
}
