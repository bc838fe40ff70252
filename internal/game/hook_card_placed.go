package game

import (
	"context"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

// CardPlacedHook forwards placements to the quest ledger.
type CardPlacedHook struct {
	s *Services
}

func NewCardPlacedHook(s *Services) *CardPlacedHook { return &CardPlacedHook{s: s} }

func (h *CardPlacedHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	if params.Card == nil || h.s.Quests == nil {
		return nil
	}
	switch params.Card.Card.Type {
	case catalog.CardTypeCreature:
		if err := h.s.Quests.ProgressQuest(ctx, params.User, wizard.ObjectivePlayCreatures, 1); err != nil {
			return err
		}
	case catalog.CardTypeArtifact:
		if err := h.s.Quests.ProgressQuest(ctx, params.User, wizard.ObjectivePlayArtifacts, 1); err != nil {
			return err
		}
	default:
		return nil
	}
	return h.s.Quests.ProgressQuest(ctx, params.User, wizard.ObjectivePlayCreaturesOrArtifacts, 1)
}
