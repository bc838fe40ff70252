package game

import (
	"context"
	"fmt"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// facetsAsSeen returns a copy of the card's current stats oriented the
// way the card faces on the board. The first seat plays upside down, so
// its cards trade their top and bottom facets.
func facetsAsSeen(inst *Instance, card *Card) *catalog.CardStats {
	stats := card.CurrentStats.Copy()
	if inst.SeatIndex(card.User) == 0 {
		stats.Top, stats.Bottom = stats.Bottom, stats.Top
	}
	return stats
}

// confrontFacets picks the facing facets of an attacker and an adjacent
// defender from their relative position.
func confrontFacets(attacker, defender *catalog.CardStats, from, to Coords) (atk, def catalog.Facet, err error) {
	switch {
	case to.Y < from.Y:
		return attacker.Top, defender.Bottom, nil
	case to.Y > from.Y:
		return attacker.Bottom, defender.Top, nil
	case to.X < from.X:
		return attacker.Left, defender.Right, nil
	case to.X > from.X:
		return attacker.Right, defender.Left, nil
	}
	return catalog.Facet{}, catalog.Facet{}, fmt.Errorf("cards at %s and %s are not adjacent", from, to)
}

// Confront resolves one confrontation between the card on the from
// square and the card on the to square. Both damages are computed from
// the stats as they stand before the clash, then applied together. Each
// wounded card raises a damaged event carrying the life lost.
func Confront(ctx context.Context, s *Services, inst *Instance, from, to Coords) error {
	attacker := inst.CardAt(from)
	defender := inst.CardAt(to)
	if attacker == nil || defender == nil {
		return fmt.Errorf("no confrontable cards at %s and %s", from, to)
	}
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx*dx+dy*dy != 1 {
		return fmt.Errorf("cards at %s and %s are not adjacent", from, to)
	}

	atkSeen := facetsAsSeen(inst, attacker)
	defSeen := facetsAsSeen(inst, defender)
	atkFacet, defFacet, err := confrontFacets(atkSeen, defSeen, from, to)
	if err != nil {
		return err
	}

	defenderLoss := atkFacet.Strength - defFacet.Defense
	attackerLoss := defFacet.Strength - atkFacet.Defense

	if defenderLoss > 0 {
		defender.CurrentStats.Life -= defenderLoss
	}
	if attackerLoss > 0 {
		attacker.CurrentStats.Life -= attackerLoss
	}

	if defenderLoss > 0 {
		err := s.Hooks.Dispatch(ctx, Key{Kind: EventCardDamaged, Subject: defender.Card.ID}, inst, HookParams{
			Card:        defender,
			Source:      attacker,
			LifeChanged: -defenderLoss,
		})
		if err != nil {
			return err
		}
	}
	if attackerLoss > 0 {
		err := s.Hooks.Dispatch(ctx, Key{Kind: EventCardDamaged, Subject: attacker.Card.ID}, inst, HookParams{
			Card:        attacker,
			Source:      defender,
			LifeChanged: -attackerLoss,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// DamageCard lowers a card's life outside a confrontation and raises the
// damaged event. A zero or negative amount is a no-op.
func DamageCard(ctx context.Context, s *Services, inst *Instance, card *Card, source *Card, amount int) error {
	if amount <= 0 {
		return nil
	}
	card.CurrentStats.Life -= amount
	return s.Hooks.Dispatch(ctx, Key{Kind: EventCardDamaged, Subject: card.Card.ID}, inst, HookParams{
		Card:        card,
		Source:      source,
		LifeChanged: -amount,
	})
}

// HealCard raises a card's life and raises the healed event. Callers cap
// the amount against the card's base life when the effect requires it.
func HealCard(ctx context.Context, s *Services, inst *Instance, card *Card, amount int) error {
	if amount <= 0 {
		return nil
	}
	card.CurrentStats.Life += amount
	return s.Hooks.Dispatch(ctx, Key{Kind: EventCardHealed, Subject: card.Card.ID}, inst, HookParams{
		Card:        card,
		LifeChanged: amount,
	})
}
