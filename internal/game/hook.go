package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Event kinds dispatched through the hook dispatcher.
const (
	EventGameCreated   = "game:created"
	EventTurnEnded     = "game:turnEnded"
	EventPhaseActions  = "game:phase:actions"
	EventCardPlaced    = "card:placed"
	EventCardDiscarded = "card:discarded"
	EventCardPicked    = "game:card:picked"
	EventCardMoved     = "card:creature:moved"
	EventCardDestroyed = "card:destroyed"
	EventCardDamaged   = "card:lifeChanged:damaged"
	EventCardHealed    = "card:lifeChanged:healed"
	EventSpellUsed     = "card:spell:used"
	EventActionExpired = "action:expired"
)

// Key addresses hook subscriptions. Subject narrows a kind to one catalog
// card; an empty Subject subscribes to every dispatch of the kind.
type Key struct {
	Kind    string
	Subject string
}

// HookParams carries the event payload. Fields are filled per kind; nil
// fields mean the kind does not use them.
type HookParams struct {
	// Card is the card the event is about.
	Card *Card
	// Source is the card that caused the event, when any.
	Source *Card
	// LifeChanged is the signed life delta for lifeChanged events.
	LifeChanged int
	// User is the seat the event is about.
	User int
	// Action is the in-flight action that triggered the event. Hooks
	// that retire pending actions must skip it.
	Action *Action
}

// Hook reacts to one event kind.
type Hook interface {
	Dispatch(ctx context.Context, inst *Instance, params HookParams) error
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, inst *Instance, params HookParams) error

// Dispatch implements Hook.
func (f HookFunc) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	return f(ctx, inst, params)
}

// Dispatcher routes events to subscribed hooks. Subscriptions happen at
// startup only; Dispatch may run hooks that dispatch further events.
type Dispatcher struct {
	log   *zap.Logger
	hooks map[Key][]Hook
}

// NewDispatcher builds an empty dispatcher.
func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{log: log, hooks: make(map[Key][]Hook)}
}

// Subscribe registers a hook for a key. Hooks run in subscription order.
func (d *Dispatcher) Subscribe(key Key, h Hook) {
	d.hooks[key] = append(d.hooks[key], h)
}

// Dispatch runs the hooks subscribed to the exact key, then the
// subjectless hooks of the same kind. The hook list is snapshotted before
// running so re-entrant dispatches see a stable view. The first hook
// error aborts the remaining hooks of this dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, key Key, inst *Instance, params HookParams) error {
	targets := append([]Hook(nil), d.hooks[key]...)
	if key.Subject != "" {
		targets = append(targets, d.hooks[Key{Kind: key.Kind}]...)
	}
	if len(targets) == 0 {
		return nil
	}
	d.log.Debug("dispatching event",
		zap.String("kind", key.Kind),
		zap.String("subject", key.Subject),
		zap.Int("game", inst.ID),
		zap.Int("hooks", len(targets)))
	for _, h := range targets {
		if err := h.Dispatch(ctx, inst, params); err != nil {
			return fmt.Errorf("hook %s:%s: %w", key.Kind, key.Subject, err)
		}
	}
	return nil
}
