package game

import (
	"context"
	"time"
)

// PassWorker ends the turn of the current user.
type PassWorker struct {
	s *Services
}

func NewPassWorker(s *Services) *PassWorker { return &PassWorker{s: s} }

func (w *PassWorker) Type() string { return ActionPass }

func (w *PassWorker) Create(ctx context.Context, inst *Instance, user int) (*Action, error) {
	expires := time.Now().Add(w.s.ActionTimeout)
	return &Action{
		Type: ActionPass,
		User: user,
		Description: LocalizedString{
			Fr: "Passer son tour",
			En: "Pass your turn",
		},
		Priority:    1,
		Interaction: Interaction{Kind: InteractionPass},
		CreatedAt:   time.Now(),
		ExpiresAt:   &expires,
	}, nil
}

func (w *PassWorker) Refresh(ctx context.Context, inst *Instance, action *Action) error {
	return nil
}

func (w *PassWorker) Execute(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	err := w.s.Hooks.Dispatch(ctx, Key{Kind: EventTurnEnded}, inst, HookParams{
		User:   action.User,
		Action: action,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *PassWorker) Expires(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	action.Interaction.Response = PassResponse{}
	return true, nil
}

// Delete grants the next user a fresh deadline on the turn opener that
// the turn-ended hooks just created.
func (w *PassWorker) Delete(ctx context.Context, inst *Instance, action *Action) error {
	expires := time.Now().Add(w.s.ActionTimeout)
	for _, a := range inst.Actions.Current {
		if a.Type == ActionThrowCards && a.User != action.User {
			a.ExpiresAt = &expires
		}
	}
	return nil
}
