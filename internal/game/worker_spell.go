package game

import (
	"context"
	"time"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// Spell card identifiers with a built-in worker.
const (
	SpellHeal          = "heal"
	SpellRuin          = "ruin"
	SpellEther         = "ether"
	SpellReinforcement = "reinforcement"
)

// spellWorker casts one spell card from hand onto a target square. Each
// spell provides its legal targets and its effect; the worker handles
// the shared lifecycle: validation, discarding the card and raising the
// spell-used event.
type spellWorker struct {
	s           *Services
	cardID      string
	description LocalizedString
	// targets lists the legal squares, nil when the spell is targetless.
	targets func(inst *Instance, user int) []string
	// effect applies the spell. target is nil for targetless spells.
	effect func(ctx context.Context, inst *Instance, user int, target *Card) error
}

func (w *spellWorker) Type() string { return SpellActionType(w.cardID) }

func (w *spellWorker) Create(ctx context.Context, inst *Instance, user int) (*Action, error) {
	action := &Action{
		Type:        w.Type(),
		User:        user,
		Description: w.description,
		Priority:    1,
		CreatedAt:   time.Now(),
	}
	w.fillInteraction(inst, action)
	return action, nil
}

func (w *spellWorker) Refresh(ctx context.Context, inst *Instance, action *Action) error {
	w.fillInteraction(inst, action)
	return nil
}

func (w *spellWorker) fillInteraction(inst *Instance, action *Action) {
	if w.targets == nil {
		action.Interaction = Interaction{Kind: InteractionPass, Response: action.Interaction.Response}
		return
	}
	spell := w.spellInHand(inst, action.User)
	var handIDs []string
	if spell != nil {
		handIDs = []string{spell.ID}
	}
	action.Interaction = Interaction{
		Kind: InteractionPutCardOnBoard,
		Params: PutCardOnBoardParams{
			HandIDs: handIDs,
			Squares: w.targets(inst, action.User),
		},
		Response: action.Interaction.Response,
	}
}

func (w *spellWorker) Execute(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	spell := w.spellInHand(inst, action.User)
	if spell == nil {
		return false, nil
	}
	var target *Card
	if w.targets != nil {
		response, ok := action.Interaction.Response.(PutCardOnBoardResponse)
		if !ok {
			return false, nil
		}
		if response.HandID != spell.ID || !contains(w.targets(inst, action.User), response.Square) {
			return false, nil
		}
		coords, err := ParseCoords(response.Square)
		if err != nil {
			return false, nil
		}
		target = inst.CardAt(coords)
		if target == nil {
			return false, nil
		}
	}
	if err := w.effect(ctx, inst, action.User, target); err != nil {
		return false, err
	}
	spell.Location = LocationDiscard
	err := w.s.Hooks.Dispatch(ctx, Key{Kind: EventSpellUsed, Subject: spell.Card.ID}, inst, HookParams{
		Card:   spell,
		User:   action.User,
		Action: action,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *spellWorker) Expires(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	return false, nil
}

func (w *spellWorker) Delete(ctx context.Context, inst *Instance, action *Action) error {
	return nil
}

func (w *spellWorker) spellInHand(inst *Instance, user int) *Card {
	for _, c := range inst.CardsOf(user, LocationHand) {
		if c.Card.ID == w.cardID {
			return c
		}
	}
	return nil
}

// NewHealSpellWorker restores up to two life to one of the caster's
// wounded cards, never above the card's base life.
func NewHealSpellWorker(s *Services) Worker {
	return &spellWorker{
		s:      s,
		cardID: SpellHeal,
		description: LocalizedString{
			Fr: "Lancer un sort de soin",
			En: "Cast a heal spell",
		},
		targets: func(inst *Instance, user int) []string {
			var out []string
			for _, c := range inst.CardsOf(user, LocationBoard) {
				if c.Coords != nil && c.CurrentStats != nil && c.CurrentStats.Life < c.Card.Stats.Life {
					out = append(out, c.Coords.String())
				}
			}
			return out
		},
		effect: func(ctx context.Context, inst *Instance, user int, target *Card) error {
			missing := target.Card.Stats.Life - target.CurrentStats.Life
			if missing > 2 {
				missing = 2
			}
			return HealCard(ctx, s, inst, target, missing)
		},
	}
}

// NewRuinSpellWorker destroys an enemy artifact.
func NewRuinSpellWorker(s *Services) Worker {
	return &spellWorker{
		s:      s,
		cardID: SpellRuin,
		description: LocalizedString{
			Fr: "Lancer un sort de ruine",
			En: "Cast a ruin spell",
		},
		targets: func(inst *Instance, user int) []string {
			var out []string
			for _, c := range inst.CardsIn(LocationBoard) {
				if c.User != user && c.Card.Type == catalog.CardTypeArtifact && c.Coords != nil {
					out = append(out, c.Coords.String())
				}
			}
			return out
		},
		effect: func(ctx context.Context, inst *Instance, user int, target *Card) error {
			return DamageCard(ctx, s, inst, target, nil, target.CurrentStats.Life)
		},
	}
}

// NewEtherSpellWorker burns an ether. It has no direct effect; casting
// enough ethers reopens the spell actions of the turn.
func NewEtherSpellWorker(s *Services) Worker {
	return &spellWorker{
		s:      s,
		cardID: SpellEther,
		description: LocalizedString{
			Fr: "Lancer un sort d'éther",
			En: "Cast an ether spell",
		},
		effect: func(ctx context.Context, inst *Instance, user int, target *Card) error {
			return nil
		},
	}
}

// NewReinforcementSpellWorker grants one of the caster's creatures one
// extra strength on every facet.
func NewReinforcementSpellWorker(s *Services) Worker {
	return &spellWorker{
		s:      s,
		cardID: SpellReinforcement,
		description: LocalizedString{
			Fr: "Lancer un sort de renfort",
			En: "Cast a reinforcement spell",
		},
		targets: func(inst *Instance, user int) []string {
			var out []string
			for _, c := range inst.CardsOf(user, LocationBoard) {
				if c.Card.Type == catalog.CardTypeCreature && c.Coords != nil {
					out = append(out, c.Coords.String())
				}
			}
			return out
		},
		effect: func(ctx context.Context, inst *Instance, user int, target *Card) error {
			BuffStrength(target, 1)
			return nil
		},
	}
}

// BuffStrength raises the strength of every facet of a board card.
func BuffStrength(card *Card, amount int) {
	card.CurrentStats.Top.Strength += amount
	card.CurrentStats.Right.Strength += amount
	card.CurrentStats.Bottom.Strength += amount
	card.CurrentStats.Left.Strength += amount
}
