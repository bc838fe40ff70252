package wizard

import (
	"context"

	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/notify"
)

// Quest objective types tracked by the ledger.
const (
	ObjectivePlayCreatures            = "play:creatures"
	ObjectivePlayArtifacts            = "play:artifacts"
	ObjectivePlayCreaturesOrArtifacts = "play:creaturesOrArtifacts"
	ObjectiveDestroyCreatures         = "destroy:creatures"
	// ObjectiveQuest is the synthetic quest-of-quests objective progressed
	// once per completed quest of any other type.
	ObjectiveQuest = "quest"
)

// TriumphAdventurer is unlocked once per account on the first completed quest.
const TriumphAdventurer = "adventurer"

// maxQuestDepth bounds the quest-of-quests recursion. The catalog is
// assumed acyclic; hitting this bound is an operational misconfiguration.
const maxQuestDepth = 8

// Service is the progression ledger bound to an account store.
type Service struct {
	store    AccountStore
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewService creates a progression ledger.
func NewService(store AccountStore, notifier notify.Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Service{store: store, notifier: notifier, logger: logger}
}

// Store exposes the underlying account store.
func (s *Service) Store() AccountStore {
	return s.store
}

// ProgressQuest loads the account, progresses every active quest matching
// objectiveType by amount and saves the account when it changed.
func (s *Service) ProgressQuest(ctx context.Context, user int, objectiveType string, amount int) error {
	w, err := s.store.GetOrCreate(ctx, user)
	if err != nil {
		return err
	}
	if s.ProgressQuestOnWizard(ctx, w, objectiveType, amount) {
		return s.store.Save(ctx, w)
	}
	return nil
}

// ProgressQuestOnWizard progresses every active quest matching
// objectiveType by amount. A quest reaching its target grants its loot,
// unlocks the adventurer triumph and progresses the synthetic "quest"
// objective. Completed quests are pruned after their loot is merged.
// Returns whether the account changed.
func (s *Service) ProgressQuestOnWizard(ctx context.Context, w *Wizard, objectiveType string, amount int) bool {
	return s.progressQuest(ctx, w, objectiveType, amount, 0)
}

func (s *Service) progressQuest(ctx context.Context, w *Wizard, objectiveType string, amount int, depth int) bool {
	if amount <= 0 {
		return false
	}
	if depth >= maxQuestDepth {
		s.logger.Warn("quest recursion depth exceeded, catalog may contain a cycle",
			zap.Int("user", w.ID),
			zap.String("objective_type", objectiveType),
		)
		return false
	}

	var (
		loots     []catalog.Loot
		changed   bool
		completed int
	)

	for i := range w.QuestsProgress {
		q := &w.QuestsProgress[i]
		if q.ObjectiveType != objectiveType || q.ObjectiveCurrent >= q.ObjectiveTarget {
			continue
		}
		q.ObjectiveCurrent += amount
		changed = true
		if q.ObjectiveCurrent >= q.ObjectiveTarget {
			q.ObjectiveCurrent = q.ObjectiveTarget
			loots = append(loots, q.Loots...)
			completed++
			UnlockTriumphOnWizard(w, TriumphAdventurer)
			s.notifier.Send(ctx, []int{w.ID}, "Arena:quest:complete", *q)
		} else {
			s.notifier.Send(ctx, []int{w.ID}, "Arena:quest:progress", *q)
		}
	}

	if completed > 0 {
		kept := w.QuestsProgress[:0]
		for _, q := range w.QuestsProgress {
			if q.ObjectiveCurrent < q.ObjectiveTarget {
				kept = append(kept, q)
			}
		}
		w.QuestsProgress = kept
		if len(loots) > 0 {
			w.Items = MergeLootsInItems(w.Items, loots)
			s.notifier.Send(ctx, []int{w.ID}, "Arena:loot", loots)
		}
	}

	// Completing any quest counts toward the quest-of-quests objective.
	if objectiveType != ObjectiveQuest {
		for i := 0; i < completed; i++ {
			s.progressQuest(ctx, w, ObjectiveQuest, 1, depth+1)
		}
	}

	return changed
}

// MergeLootsInItems adds each loot quantity into the matching item counter,
// creating counters that do not exist yet.
func MergeLootsInItems(items []Item, loots []catalog.Loot) []Item {
	for _, loot := range loots {
		found := false
		for i := range items {
			if items[i].Name == loot.Name {
				items[i].Num += loot.Num
				found = true
				break
			}
		}
		if !found {
			items = append(items, Item{Name: loot.Name, Num: loot.Num})
		}
	}
	return items
}
