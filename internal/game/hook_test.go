package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDispatcherRunsExactKeyThenCatchAll(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	var order []string
	d.Subscribe(Key{Kind: EventCardDamaged}, HookFunc(func(context.Context, *Instance, HookParams) error {
		order = append(order, "catch-all")
		return nil
	}))
	d.Subscribe(Key{Kind: EventCardDamaged, Subject: "banshee"}, HookFunc(func(context.Context, *Instance, HookParams) error {
		order = append(order, "banshee")
		return nil
	}))

	inst := &Instance{ID: 1}
	err := d.Dispatch(context.Background(), Key{Kind: EventCardDamaged, Subject: "banshee"}, inst, HookParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"banshee", "catch-all"}, order)

	order = nil
	err = d.Dispatch(context.Background(), Key{Kind: EventCardDamaged, Subject: "fox"}, inst, HookParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"catch-all"}, order)
}

func TestDispatcherSubjectlessDispatchSkipsSubjectHooks(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	ran := false
	d.Subscribe(Key{Kind: EventCardDamaged, Subject: "banshee"}, HookFunc(func(context.Context, *Instance, HookParams) error {
		ran = true
		return nil
	}))

	err := d.Dispatch(context.Background(), Key{Kind: EventCardDamaged}, &Instance{}, HookParams{})
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestDispatcherFirstErrorAborts(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	boom := errors.New("boom")
	ran := false
	d.Subscribe(Key{Kind: EventTurnEnded}, HookFunc(func(context.Context, *Instance, HookParams) error {
		return boom
	}))
	d.Subscribe(Key{Kind: EventTurnEnded}, HookFunc(func(context.Context, *Instance, HookParams) error {
		ran = true
		return nil
	}))

	err := d.Dispatch(context.Background(), Key{Kind: EventTurnEnded}, &Instance{}, HookParams{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

func TestDispatcherReentrantDispatch(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	var order []string
	d.Subscribe(Key{Kind: EventCardDestroyed}, HookFunc(func(context.Context, *Instance, HookParams) error {
		order = append(order, "destroyed")
		return nil
	}))
	d.Subscribe(Key{Kind: EventCardDamaged}, HookFunc(func(ctx context.Context, inst *Instance, p HookParams) error {
		order = append(order, "damaged")
		return d.Dispatch(ctx, Key{Kind: EventCardDestroyed}, inst, p)
	}))

	err := d.Dispatch(context.Background(), Key{Kind: EventCardDamaged}, &Instance{}, HookParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"damaged", "destroyed"}, order)
}
