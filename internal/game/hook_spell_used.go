package game

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// SpellUsedHook settles the spell economy of the turn. Casting a spell
// closes the remaining spell actions; every ether cast this turn buys two
// extra casts, so the actions reopen while the budget lasts.
type SpellUsedHook struct {
	s *Services
}

func NewSpellUsedHook(s *Services) *SpellUsedHook { return &SpellUsedHook{s: s} }

func (h *SpellUsedHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	for _, action := range append([]*Action(nil), inst.Actions.Current...) {
		if action == params.Action || action.User != params.User {
			continue
		}
		if !strings.HasPrefix(action.Type, "spell-") {
			continue
		}
		if err := h.s.Workers.RetireAction(ctx, inst, action); err != nil {
			return err
		}
	}

	ethers, spells := h.castsThisTurn(inst, params)
	if 2*ethers-spells <= 0 {
		return nil
	}
	h.s.Log.Debug("ether budget reopens spell actions",
		zap.Int("game", inst.ID),
		zap.Int("user", params.User),
		zap.Int("ethers", ethers),
		zap.Int("spells", spells))
	seen := make(map[string]bool)
	for _, c := range inst.CardsOf(params.User, LocationHand) {
		actionType := SpellActionType(c.Card.ID)
		if seen[c.Card.ID] {
			continue
		}
		if _, err := h.s.Workers.Get(actionType); err != nil {
			continue
		}
		seen[c.Card.ID] = true
		if _, err := h.s.Workers.CreateAction(ctx, inst, actionType, params.User); err != nil {
			return err
		}
	}
	return nil
}

// castsThisTurn counts the ether and the non-ether spells the user cast
// since the turn opener, the in-flight cast included. Ether casts fund
// the budget and do not consume it. The archive holds the turn in
// reverse order, the scan stops at the first throw-cards of the user.
func (h *SpellUsedHook) castsThisTurn(inst *Instance, params HookParams) (ethers, spells int) {
	if params.Card != nil && params.Card.Card.ID == SpellEther {
		ethers = 1
	} else {
		spells = 1
	}
	prev := inst.Actions.Previous
	for i := len(prev) - 1; i >= 0; i-- {
		a := prev[i]
		if a.User != params.User {
			continue
		}
		if a.Type == ActionThrowCards {
			break
		}
		if !strings.HasPrefix(a.Type, "spell-") || a.Response == nil {
			// Retired spell actions are archived without a response and
			// were never cast.
			continue
		}
		if a.Type == SpellActionType(SpellEther) {
			ethers++
		} else {
			spells++
		}
	}
	return ethers, spells
}

// InsanesEchoHook empowers the insanes-echo creatures of a caster. Each
// spell the owner casts grants them two strength on every facet.
type InsanesEchoHook struct {
	s *Services
}

func NewInsanesEchoHook(s *Services) *InsanesEchoHook { return &InsanesEchoHook{s: s} }

func (h *InsanesEchoHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	for _, c := range inst.CardsOf(params.User, LocationBoard) {
		if c.Card.ID != "insanes-echo" || c.CurrentStats == nil {
			continue
		}
		BuffStrength(c, 2)
	}
	return nil
}
