package game

import (
	"context"

	"go.uber.org/zap"
)

// TurnEndedHook retires the leftover actions of the user whose turn just
// ended and hands the next seat its turn opener.
type TurnEndedHook struct {
	s *Services
}

func NewTurnEndedHook(s *Services) *TurnEndedHook { return &TurnEndedHook{s: s} }

func (h *TurnEndedHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	for _, action := range append([]*Action(nil), inst.Actions.Current...) {
		if action == params.Action || action.User != params.User {
			// The pass action that ended the turn is still executing and
			// concludes on its own.
			continue
		}
		if err := h.s.Workers.RetireAction(ctx, inst, action); err != nil {
			return err
		}
	}
	next := inst.NextUser(params.User)
	if _, err := h.s.Workers.CreateAction(ctx, inst, ActionThrowCards, next); err != nil {
		return err
	}
	h.s.Log.Debug("turn ended",
		zap.Int("game", inst.ID),
		zap.Int("user", params.User),
		zap.Int("next", next))
	h.s.Rooms.SendMessageForGame(ctx, inst.ID, next, map[string]string{
		"fr": "C'est à votre tour de jouer.",
		"en": "It is your turn to play.",
	})
	return nil
}
