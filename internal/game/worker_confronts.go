package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// StartConfrontsWorker opens the confrontation phase. Executing it stacks
// a confronts action on top of the main-phase actions.
type StartConfrontsWorker struct {
	s *Services
}

func NewStartConfrontsWorker(s *Services) *StartConfrontsWorker { return &StartConfrontsWorker{s: s} }

func (w *StartConfrontsWorker) Type() string { return ActionStartConfronts }

func (w *StartConfrontsWorker) Create(ctx context.Context, inst *Instance, user int) (*Action, error) {
	return &Action{
		Type: ActionStartConfronts,
		User: user,
		Description: LocalizedString{
			Fr: "Lancer les affrontements",
			En: "Run the confrontations",
		},
		Priority:    1,
		Interaction: Interaction{Kind: InteractionPass},
		CreatedAt:   time.Now(),
	}, nil
}

func (w *StartConfrontsWorker) Refresh(ctx context.Context, inst *Instance, action *Action) error {
	return nil
}

func (w *StartConfrontsWorker) Execute(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	if _, err := w.s.Workers.CreateAction(ctx, inst, ActionConfronts, action.User); err != nil {
		return false, err
	}
	return true, nil
}

func (w *StartConfrontsWorker) Expires(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	return false, nil
}

func (w *StartConfrontsWorker) Delete(ctx context.Context, inst *Instance, action *Action) error {
	return nil
}

// ConfrontsWorker resolves one confrontation. Every creature attacks at
// most once per phase; the chain of resolved confrontations is read back
// from the action archive.
type ConfrontsWorker struct {
	s *Services
}

func NewConfrontsWorker(s *Services) *ConfrontsWorker { return &ConfrontsWorker{s: s} }

func (w *ConfrontsWorker) Type() string { return ActionConfronts }

func (w *ConfrontsWorker) Create(ctx context.Context, inst *Instance, user int) (*Action, error) {
	expires := time.Now().Add(w.s.ActionTimeout)
	action := &Action{
		Type: ActionConfronts,
		User: user,
		Description: LocalizedString{
			Fr: "Affronter une carte",
			En: "Confront a card",
		},
		Priority:  3,
		CreatedAt: time.Now(),
		ExpiresAt: &expires,
	}
	w.fillInteraction(inst, action)
	return action, nil
}

func (w *ConfrontsWorker) Refresh(ctx context.Context, inst *Instance, action *Action) error {
	w.fillInteraction(inst, action)
	return nil
}

func (w *ConfrontsWorker) fillInteraction(inst *Instance, action *Action) {
	action.Interaction = Interaction{
		Kind:     InteractionSelectCoupleOnBoard,
		Params:   SelectCoupleOnBoardParams{Possibilities: w.possibilities(inst, action.User)},
		Response: action.Interaction.Response,
	}
}

func (w *ConfrontsWorker) Execute(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	response, ok := action.Interaction.Response.(SelectCoupleOnBoardResponse)
	if !ok {
		return false, nil
	}
	allowed := false
	for _, p := range w.possibilities(inst, action.User) {
		if p.From == response.From && contains(p.To, response.To) {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	from, err := ParseCoords(response.From)
	if err != nil {
		return false, nil
	}
	to, err := ParseCoords(response.To)
	if err != nil {
		return false, nil
	}
	if err := Confront(ctx, w.s, inst, from, to); err != nil {
		return false, err
	}
	return true, nil
}

func (w *ConfrontsWorker) Expires(ctx context.Context, inst *Instance, action *Action) (bool, error) {
	possibilities := w.possibilities(inst, action.User)
	if len(possibilities) == 0 {
		return false, nil
	}
	pick := possibilities[rand.Intn(len(possibilities))]
	action.Interaction.Response = SelectCoupleOnBoardResponse{
		From: pick.From,
		To:   pick.To[rand.Intn(len(pick.To))],
	}
	return true, nil
}

// Delete chains the next confrontation while attackers remain; once the
// chain exhausts, the run closes the turn. The action is already
// archived when Delete runs, so the archive scan excludes its attacker.
func (w *ConfrontsWorker) Delete(ctx context.Context, inst *Instance, action *Action) error {
	if inst.Status != StatusActive {
		return nil
	}
	if _, ok := action.Interaction.Response.(SelectCoupleOnBoardResponse); !ok {
		// Retired without a response, the phase is over.
		return nil
	}
	if len(w.possibilities(inst, action.User)) == 0 {
		return w.s.Hooks.Dispatch(ctx, Key{Kind: EventTurnEnded}, inst, HookParams{
			User:   action.User,
			Action: action,
		})
	}
	_, err := w.s.Workers.CreateAction(ctx, inst, ActionConfronts, action.User)
	return err
}

// possibilities pairs each creature of the user that has not attacked
// yet this phase with the adjacent enemy cards.
func (w *ConfrontsWorker) possibilities(inst *Instance, user int) []CouplePossibility {
	used := w.usedAttackers(inst, user)
	var out []CouplePossibility
	for _, c := range inst.CardsOf(user, LocationBoard) {
		if c.Card.Type != catalog.CardTypeCreature || c.Coords == nil {
			continue
		}
		from := c.Coords.String()
		if used[from] {
			continue
		}
		var targets []string
		for _, adj := range c.Coords.Adjacent() {
			target := inst.CardAt(adj)
			if target == nil || target.User == user {
				continue
			}
			targets = append(targets, adj.String())
		}
		if len(targets) > 0 {
			out = append(out, CouplePossibility{From: from, To: targets})
		}
	}
	return out
}

// usedAttackers walks the archive backward over the unbroken run of
// confronts actions of this user and collects the squares that already
// attacked. The scan is bounded so a long archive stays cheap.
func (w *ConfrontsWorker) usedAttackers(inst *Instance, user int) map[string]bool {
	used := make(map[string]bool)
	window := w.s.ConfrontsWindow
	if window <= 0 {
		window = 50
	}
	prev := inst.Actions.Previous
	for i := len(prev) - 1; i >= 0 && len(prev)-i <= window; i-- {
		a := prev[i]
		if a.Type != ActionConfronts || a.User != user {
			break
		}
		if resp, ok := a.Response.(SelectCoupleOnBoardResponse); ok {
			used[resp.From] = true
		}
	}
	return used
}
