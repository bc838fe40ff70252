package game

import (
	"context"
	"time"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// PlaceCardWorker lets the user put one creature or artifact from their
// hand on a free square next to one of their board cards, once per turn.
type PlaceCardWorker struct {
	s *Services
}

func NewPlaceCardWorker(s *Services) *PlaceCardWorker { return &PlaceCardWorker{s: s} }

func (w *PlaceCardWorker) Type() string { return ActionPlaceCard }

func (w *PlaceCardWorker) Create(ctx context.Context, inst *Instance, user int) (*Action, error) {
	action := &Action{
		Type: ActionPlaceCard,
		User: user,
		Description: LocalizedString{
			Fr: "Poser une carte",
			En: "Place a card",
		},
		Priority:  1,
		CreatedAt: time.Now(),
	}
	w.fillInteraction(inst, action)
	return action, nil
}

func (w *PlaceCardWorker) Refresh(ctx context.Context, inst *Instance, action *Action) error {
	w.fillInteraction(inst, action)
	return nil
}

func (w *PlaceCardWorker) fillInteraction(inst *Instance, action *Action) {
	var handIDs []string
	for _, c := range inst.CardsOf(action.User, LocationHand) {
		if c.Card.Type == catalog.CardTypeCreature || c.Card.Type == catalog.CardTypeArtifact {
			handIDs = append(handIDs, c.ID)
		}
	}
	action.Interaction = Interaction{
		Kind: InteractionPutCardOnBoard,
		Params: PutCardOnBoardParams{
			HandIDs: handIDs,
			Squares: placementSquares(inst, action.User),
		},
		Response: action.Interaction.Response,
	}
}

func (w *PlaceCardWorker) Execute(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	response, ok := action.Interaction.Response.(PutCardOnBoardResponse)
	if !ok {
		return false, nil
	}
	params, _ := action.Interaction.Params.(PutCardOnBoardParams)
	if !contains(params.HandIDs, response.HandID) || !contains(params.Squares, response.Square) {
		return false, nil
	}
	coords, err := ParseCoords(response.Square)
	if err != nil {
		return false, nil
	}
	card := inst.CardByID(response.HandID)
	if card == nil || card.Location != LocationHand {
		return false, nil
	}
	card.Location = LocationBoard
	card.Coords = &coords
	card.CurrentStats = card.Card.Stats.Copy()
	err = w.s.Hooks.Dispatch(ctx, Key{Kind: EventCardPlaced, Subject: card.Card.ID}, inst, HookParams{
		Card: card,
		User: action.User,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *PlaceCardWorker) Expires(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	return false, nil
}

func (w *PlaceCardWorker) Delete(ctx context.Context, inst *Instance, action *Action) error {
	return nil
}

// placementSquares lists the free squares adjacent to the user's board
// cards.
func placementSquares(inst *Instance, user int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range inst.CardsOf(user, LocationBoard) {
		if c.Coords == nil {
			continue
		}
		for _, adj := range c.Coords.Adjacent() {
			key := adj.String()
			if seen[key] || inst.CardAt(adj) != nil {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
