package game

import (
	"context"

	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

// CardDamagedHook discards creatures and artifacts that ran out of life
// and raises the destroyed event for them. Player avatars are handled by
// the elimination hook.
type CardDamagedHook struct {
	s *Services
}

func NewCardDamagedHook(s *Services) *CardDamagedHook { return &CardDamagedHook{s: s} }

func (h *CardDamagedHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	card := params.Card
	if card == nil || card.Card.Type == catalog.CardTypePlayer {
		return nil
	}
	if card.Location != LocationBoard || card.CurrentStats == nil || card.CurrentStats.Life > 0 {
		return nil
	}
	card.Location = LocationDiscard
	card.Coords = nil
	h.s.Log.Debug("card destroyed",
		zap.Int("game", inst.ID),
		zap.String("card", card.Card.ID),
		zap.Int("owner", card.User))
	return h.s.Hooks.Dispatch(ctx, Key{Kind: EventCardDestroyed, Subject: card.Card.ID}, inst, HookParams{
		Card:   card,
		Source: params.Source,
	})
}

// CardDestroyedHook credits the destroyer's quests.
type CardDestroyedHook struct {
	s *Services
}

func NewCardDestroyedHook(s *Services) *CardDestroyedHook { return &CardDestroyedHook{s: s} }

func (h *CardDestroyedHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	if h.s.Quests == nil || params.Card == nil || params.Source == nil {
		return nil
	}
	if params.Card.Card.Type != catalog.CardTypeCreature || params.Source.User == params.Card.User {
		return nil
	}
	return h.s.Quests.ProgressQuest(ctx, params.Source.User, wizard.ObjectiveDestroyCreatures, 1)
}
