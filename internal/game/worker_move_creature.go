package game

import (
	"context"
	"time"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// MoveCreatureWorker lets the user move one of their creatures to an
// adjacent free square, once per turn.
type MoveCreatureWorker struct {
	s *Services
}

func NewMoveCreatureWorker(s *Services) *MoveCreatureWorker { return &MoveCreatureWorker{s: s} }

func (w *MoveCreatureWorker) Type() string { return ActionMoveCreature }

func (w *MoveCreatureWorker) Create(ctx context.Context, inst *Instance, user int) (*Action, error) {
	action := &Action{
		Type: ActionMoveCreature,
		User: user,
		Description: LocalizedString{
			Fr: "Déplacer une créature",
			En: "Move a creature",
		},
		Priority:  1,
		CreatedAt: time.Now(),
	}
	w.fillInteraction(inst, action)
	return action, nil
}

func (w *MoveCreatureWorker) Refresh(ctx context.Context, inst *Instance, action *Action) error {
	w.fillInteraction(inst, action)
	return nil
}

func (w *MoveCreatureWorker) fillInteraction(inst *Instance, action *Action) {
	action.Interaction = Interaction{
		Kind:     InteractionMoveCardOnBoard,
		Params:   MoveCardOnBoardParams{Possibilities: moveTargets(inst, action.User)},
		Response: action.Interaction.Response,
	}
}

func (w *MoveCreatureWorker) Execute(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	response, ok := action.Interaction.Response.(MoveCardOnBoardResponse)
	if !ok {
		return false, nil
	}
	allowed := false
	for _, target := range moveTargets(inst, action.User) {
		if target.Card != response.Card {
			continue
		}
		for _, sq := range target.Squares {
			if sq == response.Square {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return false, nil
	}
	coords, err := ParseCoords(response.Square)
	if err != nil {
		return false, nil
	}
	card := inst.CardByID(response.Card)
	if card == nil {
		return false, nil
	}
	card.Coords = &coords
	err = w.s.Hooks.Dispatch(ctx, Key{Kind: EventCardMoved, Subject: card.Card.ID}, inst, HookParams{
		Card:   card,
		User:   action.User,
		Action: action,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *MoveCreatureWorker) Expires(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	return false, nil
}

func (w *MoveCreatureWorker) Delete(ctx context.Context, inst *Instance, action *Action) error {
	return nil
}

func moveTargets(inst *Instance, user int) []BoardTarget {
	var out []BoardTarget
	for _, c := range inst.CardsOf(user, LocationBoard) {
		if c.Card.Type != catalog.CardTypeCreature || c.Coords == nil {
			continue
		}
		var squares []string
		for _, adj := range c.Coords.Adjacent() {
			if inst.CardAt(adj) == nil {
				squares = append(squares, adj.String())
			}
		}
		if len(squares) > 0 {
			out = append(out, BoardTarget{Card: c.ID, Squares: squares})
		}
	}
	return out
}
