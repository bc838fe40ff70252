package game

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/notify"
	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

const (
	testUserOne = 101
	testUserTwo = 102
)

func newTestServices(t *testing.T) (*Services, *notify.Recorder) {
	t.Helper()
	log := zaptest.NewLogger(t)
	recorder := &notify.Recorder{}
	store := wizard.NewMemStore()
	s := &Services{
		Log:             log,
		Notify:          recorder,
		Catalog:         catalog.Static(catalog.DefaultCards(), catalog.DefaultGameTypes()),
		Quests:          wizard.NewService(store, recorder, log),
		Accounts:        store,
		ActionTimeout:   30 * time.Second,
		ConfrontsWindow: 50,
	}
	s.Hooks = NewDispatcher(log)
	s.Workers = NewRegistry()
	RegisterDefaults(s)
	return s, recorder
}

func newTestManager(t *testing.T) (*Manager, *Services, *notify.Recorder) {
	t.Helper()
	s, recorder := newTestServices(t)
	return NewManager(s), s, recorder
}

func startStandardGame(t *testing.T, m *Manager) *Instance {
	t.Helper()
	inst, err := m.CreateInstance(context.Background(), "standard", []User{
		{User: testUserOne, Destiny: "hunter"},
		{User: testUserTwo, Destiny: "conjurer", Origin: "healer"},
	}, nil)
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	return inst
}

// addCard drops a card with given current stats straight onto the board.
func addCard(t *testing.T, s *Services, inst *Instance, cardID string, user int, loc Location, coords *Coords) *Card {
	t.Helper()
	base, err := s.Catalog.Card(context.Background(), cardID)
	if err != nil {
		t.Fatalf("catalog card %s: %v", cardID, err)
	}
	c := &Card{
		ID:       uuid.NewString(),
		Card:     base,
		User:     user,
		Location: loc,
		Coords:   coords,
	}
	if loc == LocationBoard && base.Stats != nil {
		c.CurrentStats = base.Stats.Copy()
	}
	inst.Cards = append(inst.Cards, c)
	return c
}

func findAction(inst *Instance, user int, actionType string) *Action {
	for _, a := range inst.Actions.Current {
		if a.User == user && a.Type == actionType {
			return a
		}
	}
	return nil
}
