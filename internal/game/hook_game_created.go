package game

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandSize is the number of cards drawn at the start of a game.
const HandSize = 6

// GameCreatedHook seeds the decks according to the active modifiers,
// spawns the board fixtures and deals the opening hands.
type GameCreatedHook struct {
	s *Services
}

func NewGameCreatedHook(s *Services) *GameCreatedHook { return &GameCreatedHook{s: s} }

func (h *GameCreatedHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	if err := h.seedModifierCards(ctx, inst); err != nil {
		return err
	}
	if inst.Modifiers.Has(ModifierAnnihilationMatts) {
		if err := h.spawnTowers(ctx, inst); err != nil {
			return err
		}
	}
	for _, u := range inst.Users {
		DrawCards(inst, u.User, HandSize)
	}
	h.s.Log.Info("game created",
		zap.Int("game", inst.ID),
		zap.String("gameType", inst.GameTypeID),
		zap.Ints("users", inst.UserIDs()))
	return nil
}

func (h *GameCreatedHook) seedModifierCards(ctx context.Context, inst *Instance) error {
	type seeding struct {
		modifier Modifier
		cardID   string
		perDeck  int
	}
	seedings := []seeding{
		{ModifierGoldenGalleons, "golden-galleon", 6},
		{ModifierGreatAncients, "great-ancient-egg", 4},
		{ModifierHarvestingSouls, "blood-strength", 4},
		{ModifierTricks, "trick-or-treat", 6},
	}
	for _, seed := range seedings {
		if !inst.Modifiers.Has(seed.modifier) {
			continue
		}
		card, err := h.s.Catalog.Card(ctx, seed.cardID)
		if err != nil {
			return err
		}
		for _, u := range inst.Users {
			for i := 0; i < seed.perDeck; i++ {
				inst.Cards = append(inst.Cards, &Card{
					ID:       uuid.NewString(),
					Card:     card,
					User:     u.User,
					Location: LocationDeck,
				})
			}
		}
	}
	if inst.Modifiers.Has(ModifierSouvenirs) {
		for _, u := range inst.Users {
			opponent := inst.Users[(inst.SeatIndex(u.User)+1)%len(inst.Users)]
			card, err := h.s.Catalog.Card(ctx, opponent.Destiny+"-souvenir")
			if err != nil {
				// A destiny without a souvenir skips the seeding.
				continue
			}
			for i := 0; i < 4; i++ {
				inst.Cards = append(inst.Cards, &Card{
					ID:       uuid.NewString(),
					Card:     card,
					User:     u.User,
					Location: LocationDeck,
				})
			}
		}
	}
	return nil
}

func (h *GameCreatedHook) spawnTowers(ctx context.Context, inst *Instance) error {
	tower, err := h.s.Catalog.Card(ctx, "the-tower")
	if err != nil {
		return err
	}
	for _, coords := range []Coords{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 1, Y: 5}, {X: 5, Y: 5}} {
		coords := coords
		inst.Cards = append(inst.Cards, &Card{
			ID:           uuid.NewString(),
			Card:         tower,
			User:         NeutralUser,
			Location:     LocationBoard,
			Coords:       &coords,
			CurrentStats: tower.Stats.Copy(),
		})
	}
	return nil
}
