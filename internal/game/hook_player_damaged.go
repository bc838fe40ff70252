package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

// Triumphs granted at the end of a game.
const (
	TriumphSpirit    = "spirit"
	TriumphWizzard   = "wizzard"
	TriumphSilentist = "silentist"
	TriumphPredator  = "predator"
)

// Bot seats of the solo game modes.
const (
	BotApplier  = 933
	BotPredator = 934
)

// PlayerDamagedHook ends the game when an avatar runs out of life. It
// settles the results, the loots, the history and the triumphs of every
// seat, exactly once per game.
type PlayerDamagedHook struct {
	s *Services
}

func NewPlayerDamagedHook(s *Services) *PlayerDamagedHook { return &PlayerDamagedHook{s: s} }

func (h *PlayerDamagedHook) Dispatch(ctx context.Context, inst *Instance, params HookParams) error {
	card := params.Card
	if card == nil || card.Card.Type != catalog.CardTypePlayer {
		return nil
	}
	if card.CurrentStats == nil || card.CurrentStats.Life > 0 || inst.Status != StatusActive {
		return nil
	}
	inst.Status = StatusEnded

	gameType, err := h.s.Catalog.GameType(ctx, inst.GameTypeID)
	if err != nil {
		return err
	}

	losers := make(map[int]bool)
	for _, u := range inst.Users {
		avatar := inst.PlayerCard(u.User)
		if avatar == nil || (avatar.CurrentStats != nil && avatar.CurrentStats.Life <= 0) {
			losers[u.User] = true
		}
	}

	inst.Result = inst.Result[:0]
	for _, u := range inst.Users {
		victory := !losers[u.User]
		loots := h.loots(inst, gameType, u.User, victory)
		result := "defeat"
		if victory {
			result = "victory"
		}
		inst.Result = append(inst.Result, Result{User: u.User, Result: result, Loots: loots})
		if err := h.settleAccount(ctx, inst, u, victory, loots); err != nil {
			h.s.Log.Error("failed to settle account",
				zap.Int("game", inst.ID),
				zap.Int("user", u.User),
				zap.Error(err))
		}
	}

	h.s.Log.Info("game ended",
		zap.Int("game", inst.ID),
		zap.Ints("users", inst.UserIDs()))
	h.s.Rooms.SendMessageForGame(ctx, inst.ID, NeutralUser, map[string]string{
		"fr": "La partie est terminée.",
		"en": "The game has ended.",
	})
	return nil
}

// loots computes the rewards of one seat. The modifiers of the instance
// can both extend and amplify the game type's base loots.
func (h *PlayerDamagedHook) loots(inst *Instance, gameType *catalog.GameType, user int, victory bool) []catalog.Loot {
	base := gameType.Loots.Defeat
	if victory {
		base = gameType.Loots.Victory
	}
	loots := make([]catalog.Loot, 0, len(base)+1)
	for _, l := range base {
		if inst.Modifiers.Has(ModifierHarvestingSouls) && l.Name == "shard" {
			l.Num *= 2
		}
		loots = append(loots, l)
	}
	if inst.Modifiers.Has(ModifierGoldenGalleons) {
		galleons := 0
		for _, c := range inst.Cards {
			if c.User == user && c.Card.ID == "golden-galleon" &&
				(c.Location == LocationHand || c.Location == LocationBoard) {
				galleons++
			}
		}
		if galleons > 0 {
			loots = append(loots, catalog.Loot{Name: "shop-point", Num: galleons})
		}
	}
	return loots
}

func (h *PlayerDamagedHook) settleAccount(ctx context.Context, inst *Instance, seat User, victory bool, loots []catalog.Loot) error {
	if seat.User == BotApplier || seat.User == BotPredator {
		return nil
	}
	w, err := h.s.Accounts.GetOrCreate(ctx, seat.User)
	if err != nil {
		return err
	}
	w.History = append(w.History, wizard.HistoryItem{
		GameID:     inst.ID,
		GameTypeID: inst.GameTypeID,
		Victory:    victory,
		Timestamp:  time.Now().Unix(),
	})
	w.Items = wizard.MergeLootsInItems(w.Items, loots)

	if victory {
		wizard.UnlockTriumphOnWizard(w, seat.Destiny)
		if seat.Origin != "" {
			wizard.UnlockTriumphOnWizard(w, seat.Origin)
		}
		for _, other := range inst.Users {
			switch other.User {
			case BotApplier:
				wizard.UnlockTriumphOnWizard(w, TriumphSilentist)
			case BotPredator:
				wizard.UnlockTriumphOnWizard(w, TriumphPredator)
			}
		}
	} else {
		wizard.UnlockTriumphOnWizard(w, TriumphSpirit)
	}
	if inst.GameTypeID == "fpe" || inst.GameTypeID == "tutorial" {
		wizard.UnlockTriumphOnWizard(w, TriumphWizzard)
	}

	if err := h.s.Accounts.Save(ctx, w); err != nil {
		return err
	}
	subject := "Arena:game:defeat"
	if victory {
		subject = "Arena:game:victory"
	}
	h.s.Notify.Send(ctx, []int{seat.User}, subject, map[string]any{
		"game":  inst.ID,
		"loots": loots,
	})
	return nil
}
