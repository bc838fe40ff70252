package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// Action types handled by the built-in workers.
const (
	ActionThrowCards     = "throw-cards"
	ActionPass           = "pass"
	ActionMoveCreature   = "move-creature"
	ActionPlaceCard      = "place-card"
	ActionStartConfronts = "run-confronts"
	ActionConfronts      = "confronts"
)

// SpellActionType names the action created for a spell card in hand.
func SpellActionType(cardID string) string {
	return "spell-" + cardID
}

// ThrowCardsWorker opens each turn. The user discards any number of hand
// cards and draws one replacement per discard. When the deck runs dry,
// each missing replacement wounds the user's avatar instead.
type ThrowCardsWorker struct {
	s *Services
}

func NewThrowCardsWorker(s *Services) *ThrowCardsWorker { return &ThrowCardsWorker{s: s} }

func (w *ThrowCardsWorker) Type() string { return ActionThrowCards }

func (w *ThrowCardsWorker) Create(ctx context.Context, inst *Instance, user int) (*Action, error) {
	expires := time.Now().Add(w.s.ActionTimeout)
	action := &Action{
		Type: ActionThrowCards,
		User: user,
		Description: LocalizedString{
			Fr: "Défausser des cartes",
			En: "Throw cards",
		},
		Priority:  10,
		CreatedAt: time.Now(),
		ExpiresAt: &expires,
	}
	w.fillInteraction(inst, action)
	return action, nil
}

func (w *ThrowCardsWorker) Refresh(ctx context.Context, inst *Instance, action *Action) error {
	w.fillInteraction(inst, action)
	return nil
}

func (w *ThrowCardsWorker) fillInteraction(inst *Instance, action *Action) {
	hand := inst.CardsOf(action.User, LocationHand)
	ids := make([]string, len(hand))
	for i, c := range hand {
		ids[i] = c.ID
	}
	action.Interaction = Interaction{
		Kind: InteractionMoveCardsToDiscard,
		Params: MoveCardsToDiscardParams{
			HandIDs: ids,
			Min:     0,
			Max:     len(ids),
		},
		Response: action.Interaction.Response,
	}
}

func (w *ThrowCardsWorker) Execute(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	response, ok := action.Interaction.Response.(MoveCardsToDiscardResponse)
	if !ok {
		return false, nil
	}
	hand := inst.CardsOf(action.User, LocationHand)
	thrown := make([]*Card, 0, len(response.HandIDs))
	seen := make(map[string]bool, len(response.HandIDs))
	for _, id := range response.HandIDs {
		// A card thrown twice would draw two replacements.
		if seen[id] {
			return false, nil
		}
		seen[id] = true
		var found *Card
		for _, c := range hand {
			if c.ID == id {
				found = c
				break
			}
		}
		if found == nil {
			return false, nil
		}
		thrown = append(thrown, found)
	}

	for _, c := range thrown {
		c.Location = LocationDiscard
		err := w.s.Hooks.Dispatch(ctx, Key{Kind: EventCardDiscarded, Subject: c.Card.ID}, inst, HookParams{
			Card:   c,
			User:   action.User,
			Action: action,
		})
		if err != nil {
			return false, err
		}
	}
	picked := DrawCards(inst, action.User, len(thrown))
	for _, c := range picked {
		err := w.s.Hooks.Dispatch(ctx, Key{Kind: EventCardPicked, Subject: c.Card.ID}, inst, HookParams{
			Card:   c,
			User:   action.User,
			Action: action,
		})
		if err != nil {
			return false, err
		}
	}
	if missing := len(thrown) - len(picked); missing > 0 {
		avatar := inst.PlayerCard(action.User)
		if avatar != nil {
			if err := DamageCard(ctx, w.s, inst, avatar, nil, missing); err != nil {
				return false, err
			}
		}
	}
	if inst.Status != StatusActive {
		return true, nil
	}
	if err := CreateMainPhaseActions(ctx, w.s, inst, action.User); err != nil {
		return false, err
	}
	return true, nil
}

func (w *ThrowCardsWorker) Expires(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	action.Interaction.Response = MoveCardsToDiscardResponse{}
	return true, nil
}

func (w *ThrowCardsWorker) Delete(ctx context.Context, inst *Instance, action *Action) error {
	return nil
}

// DrawCards moves up to count random deck cards of the user to the hand
// and returns the drawn cards.
func DrawCards(inst *Instance, user int, count int) []*Card {
	drawn := make([]*Card, 0, count)
	for len(drawn) < count {
		deck := inst.CardsOf(user, LocationDeck)
		if len(deck) == 0 {
			break
		}
		card := deck[rand.Intn(len(deck))]
		card.Location = LocationHand
		drawn = append(drawn, card)
	}
	return drawn
}

// CreateMainPhaseActions builds the actions of the main phase of a turn:
// moving a creature, placing a card, running the confrontations, passing,
// and casting each distinct spell in hand.
func CreateMainPhaseActions(ctx context.Context, s *Services, inst *Instance, user int) error {
	for _, actionType := range []string{ActionMoveCreature, ActionPlaceCard, ActionStartConfronts, ActionPass} {
		if _, err := s.Workers.CreateAction(ctx, inst, actionType, user); err != nil {
			return err
		}
	}
	seen := make(map[string]bool)
	for _, c := range inst.CardsOf(user, LocationHand) {
		if c.Card.Type != catalog.CardTypeSpell || seen[c.Card.ID] {
			continue
		}
		seen[c.Card.ID] = true
		actionType := SpellActionType(c.Card.ID)
		if _, err := s.Workers.Get(actionType); err != nil {
			// Spells without a worker stay uncastable in hand.
			continue
		}
		if _, err := s.Workers.CreateAction(ctx, inst, actionType, user); err != nil {
			return err
		}
	}
	return s.Hooks.Dispatch(ctx, Key{Kind: EventPhaseActions}, inst, HookParams{User: user})
}
