package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/rooms"
)

// Errors returned by the manager.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrActionNotFound  = errors.New("no such pending action")
	ErrInvalidResponse = errors.New("invalid action response")
	ErrGameEnded       = errors.New("game has ended")
)

// Avatar squares of the two seats.
var avatarCoords = []Coords{
	{X: 3, Y: 0},
	{X: 3, Y: BoardSize - 1},
}

// managedInstance pairs an instance with its lock. Every read or write of
// the instance happens under it.
type managedInstance struct {
	mu   sync.Mutex
	inst *Instance
}

// Manager owns the game instances and serializes every mutation through
// a per-instance lock.
type Manager struct {
	s *Services

	mu        sync.Mutex
	instances map[int]*managedInstance
	nextID    int
}

// NewManager builds a manager on top of fully wired services.
func NewManager(s *Services) *Manager {
	return &Manager{
		s:         s,
		instances: make(map[int]*managedInstance),
		nextID:    1,
	}
}

// RegisterDefaults wires the built-in workers and hooks into the
// services. It must run once, before the first game is created.
func RegisterDefaults(s *Services) {
	for _, w := range []Worker{
		NewThrowCardsWorker(s),
		NewPassWorker(s),
		NewMoveCreatureWorker(s),
		NewPlaceCardWorker(s),
		NewStartConfrontsWorker(s),
		NewConfrontsWorker(s),
		NewHealSpellWorker(s),
		NewRuinSpellWorker(s),
		NewEtherSpellWorker(s),
		NewReinforcementSpellWorker(s),
	} {
		s.Workers.Register(w)
	}

	s.Hooks.Subscribe(Key{Kind: EventGameCreated}, NewGameCreatedHook(s))
	s.Hooks.Subscribe(Key{Kind: EventTurnEnded}, NewTurnEndedHook(s))
	s.Hooks.Subscribe(Key{Kind: EventCardPlaced}, NewCardPlacedHook(s))
	s.Hooks.Subscribe(Key{Kind: EventCardDamaged}, NewCardDamagedHook(s))
	s.Hooks.Subscribe(Key{Kind: EventCardDamaged}, NewPlayerDamagedHook(s))
	s.Hooks.Subscribe(Key{Kind: EventCardDestroyed}, NewCardDestroyedHook(s))
	s.Hooks.Subscribe(Key{Kind: EventSpellUsed}, NewSpellUsedHook(s))
	s.Hooks.Subscribe(Key{Kind: EventSpellUsed}, NewInsanesEchoHook(s))
}

// CreateInstance builds a game for the given seats, deals the decks and
// opens the first turn.
func (m *Manager) CreateInstance(ctx context.Context, gameTypeID string, users []User, modifiers ModifierSet) (*Instance, error) {
	if len(users) != len(avatarCoords) {
		return nil, fmt.Errorf("a game takes %d users, got %d", len(avatarCoords), len(users))
	}
	gameType, err := m.s.Catalog.GameType(ctx, gameTypeID)
	if err != nil {
		return nil, fmt.Errorf("game type %s: %w", gameTypeID, err)
	}

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.mu.Unlock()

	inst := &Instance{
		ID:         id,
		Status:     StatusPending,
		GameTypeID: gameTypeID,
		Users:      users,
		Modifiers:  modifiers,
		CreatedAt:  time.Now(),
	}
	if len(gameType.Themes) > 0 {
		inst.Theme = gameType.Themes[rand.Intn(len(gameType.Themes))]
	}

	for seat, u := range users {
		if !contains(gameType.Destinies, u.Destiny) {
			return nil, fmt.Errorf("destiny %s is not playable in %s", u.Destiny, gameTypeID)
		}
		deck, ok := gameType.Decks[u.Destiny]
		if !ok {
			return nil, fmt.Errorf("no deck for destiny %s in %s", u.Destiny, gameTypeID)
		}
		avatar, err := m.s.Catalog.Card(ctx, u.Destiny)
		if err != nil {
			return nil, err
		}
		coords := avatarCoords[seat]
		inst.Cards = append(inst.Cards, &Card{
			ID:           uuid.NewString(),
			Card:         avatar,
			User:         u.User,
			Location:     LocationBoard,
			Coords:       &coords,
			CurrentStats: avatar.Stats.Copy(),
		})
		for _, item := range deck {
			card, err := m.s.Catalog.Card(ctx, item.CardID)
			if err != nil {
				return nil, err
			}
			for i := 0; i < item.Num; i++ {
				inst.Cards = append(inst.Cards, &Card{
					ID:       uuid.NewString(),
					Card:     card,
					User:     u.User,
					Location: LocationDeck,
				})
			}
		}
	}

	// The instance is not published yet, no lock is needed here.
	if err := m.s.Hooks.Dispatch(ctx, Key{Kind: EventGameCreated}, inst, HookParams{}); err != nil {
		return nil, err
	}
	inst.Status = StatusActive
	if _, err := m.s.Workers.CreateAction(ctx, inst, ActionThrowCards, users[0].User); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.instances[id] = &managedInstance{inst: inst}
	m.mu.Unlock()

	senders := make([]rooms.Sender, len(users))
	for i, u := range users {
		senders[i] = rooms.Sender{User: u.User, DisplayName: fmt.Sprintf("wizard-%d", u.User)}
	}
	m.s.Rooms.CreateRoomForGame(ctx, inst.ID, senders)
	m.s.Notify.Send(ctx, inst.UserIDs(), "Arena:game:created", map[string]any{"game": inst.ID})

	m.s.Log.Info("instance created",
		zap.Int("game", inst.ID),
		zap.String("gameType", gameTypeID),
		zap.Ints("users", inst.UserIDs()))
	return inst, nil
}

// RespondToAction applies a user's response to one of their visible
// pending actions. An invalid response leaves the action pending.
func (m *Manager) RespondToAction(ctx context.Context, gameID, user int, actionType string, response any) error {
	managed, err := m.managed(gameID)
	if err != nil {
		return err
	}
	managed.mu.Lock()
	defer managed.mu.Unlock()
	inst := managed.inst
	if inst.Status != StatusActive {
		return ErrGameEnded
	}

	var action *Action
	for _, a := range VisibleActions(inst, user) {
		if a.Type == actionType {
			action = a
			break
		}
	}
	if action == nil {
		return ErrActionNotFound
	}

	action.Interaction.Response = response
	worker, err := m.s.Workers.Get(action.Type)
	if err != nil {
		return err
	}
	done, err := worker.Execute(ctx, inst, action)
	if err != nil {
		return err
	}
	if !done {
		action.Interaction.Response = nil
		return ErrInvalidResponse
	}
	if err := m.s.Workers.ConcludeAction(ctx, inst, action); err != nil {
		return err
	}
	m.s.Workers.RefreshAll(ctx, inst)
	m.s.Notify.Send(ctx, inst.UserIDs(), "Arena:game:action", map[string]any{
		"game":   inst.ID,
		"user":   user,
		"action": action.Type,
	})
	return nil
}

// Concede forfeits the game for the user by draining their avatar's
// life, which settles the game through the regular elimination path.
func (m *Manager) Concede(ctx context.Context, gameID, user int) error {
	managed, err := m.managed(gameID)
	if err != nil {
		return err
	}
	managed.mu.Lock()
	defer managed.mu.Unlock()
	inst := managed.inst
	if inst.Status != StatusActive {
		return ErrGameEnded
	}
	avatar := inst.PlayerCard(user)
	if avatar == nil {
		return fmt.Errorf("user %d has no avatar in game %d", user, gameID)
	}
	m.s.Log.Info("user conceded", zap.Int("game", gameID), zap.Int("user", user))
	return DamageCard(ctx, m.s, inst, avatar, nil, avatar.CurrentStats.Life)
}

// View runs fn with the instance lock held. The instance must not escape
// fn.
func (m *Manager) View(gameID int, fn func(inst *Instance) error) error {
	managed, err := m.managed(gameID)
	if err != nil {
		return err
	}
	managed.mu.Lock()
	defer managed.mu.Unlock()
	return fn(managed.inst)
}

// GameIDs lists the known instances in creation order.
func (m *Manager) GameIDs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Tick expires the timed-out actions of every active instance.
func (m *Manager) Tick(ctx context.Context, now time.Time) {
	for _, id := range m.GameIDs() {
		managed, err := m.managed(id)
		if err != nil {
			continue
		}
		managed.mu.Lock()
		m.expireActions(ctx, managed.inst, now)
		managed.mu.Unlock()
	}
}

func (m *Manager) expireActions(ctx context.Context, inst *Instance, now time.Time) {
	if inst.Status != StatusActive {
		return
	}
	for _, action := range append([]*Action(nil), inst.Actions.Current...) {
		if action.ExpiresAt == nil || action.ExpiresAt.After(now) {
			continue
		}
		if inst.Status != StatusActive {
			return
		}
		if !isCurrentAction(inst, action) {
			// An earlier expiry in this sweep already retired it.
			continue
		}
		worker, err := m.s.Workers.Get(action.Type)
		if err != nil {
			continue
		}
		m.s.Log.Info("action expired",
			zap.Int("game", inst.ID),
			zap.Int("user", action.User),
			zap.String("action", action.Type))
		run, err := worker.Expires(ctx, inst, action)
		if err != nil {
			m.s.Log.Error("expiry failed", zap.Int("game", inst.ID), zap.Error(err))
			continue
		}
		if run {
			done, err := worker.Execute(ctx, inst, action)
			if err != nil || !done {
				m.s.Log.Error("expired action did not execute",
					zap.Int("game", inst.ID),
					zap.String("action", action.Type),
					zap.Error(err))
			}
		}
		if err := m.s.Workers.ConcludeAction(ctx, inst, action); err != nil {
			m.s.Log.Error("expired action did not conclude",
				zap.Int("game", inst.ID),
				zap.Error(err))
			continue
		}
		if err := m.s.Hooks.Dispatch(ctx, Key{Kind: EventActionExpired}, inst, HookParams{User: action.User, Action: action}); err != nil {
			m.s.Log.Error("expiry hook failed", zap.Int("game", inst.ID), zap.Error(err))
		}
	}
	m.s.Workers.RefreshAll(ctx, inst)
}

func isCurrentAction(inst *Instance, action *Action) bool {
	for _, a := range inst.Actions.Current {
		if a == action {
			return true
		}
	}
	return false
}

func (m *Manager) managed(gameID int) (*managedInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	managed, ok := m.instances[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return managed, nil
}
