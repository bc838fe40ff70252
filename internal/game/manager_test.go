package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInstanceDealsBoardAndHands(t *testing.T) {
	m, _, recorder := newTestManager(t)
	inst := startStandardGame(t, m)

	assert.Equal(t, StatusActive, inst.Status)

	one := inst.PlayerCard(testUserOne)
	two := inst.PlayerCard(testUserTwo)
	require.NotNil(t, one)
	require.NotNil(t, two)
	assert.Equal(t, Coords{X: 3, Y: 0}, *one.Coords)
	assert.Equal(t, Coords{X: 3, Y: 6}, *two.Coords)

	assert.Len(t, inst.CardsOf(testUserOne, LocationHand), HandSize)
	assert.Len(t, inst.CardsOf(testUserTwo, LocationHand), HandSize)

	opener := findAction(inst, testUserOne, ActionThrowCards)
	require.NotNil(t, opener)
	assert.NotNil(t, opener.ExpiresAt)
	assert.Nil(t, findAction(inst, testUserTwo, ActionThrowCards))

	assert.NotEmpty(t, recorder.BySubject("Arena:game:created"))
}

func TestCreateInstanceRejectsUnknownDestiny(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.CreateInstance(context.Background(), "standard", []User{
		{User: testUserOne, Destiny: "necromancer"},
		{User: testUserTwo, Destiny: "conjurer"},
	}, nil)
	assert.Error(t, err)
}

func TestRespondThrowCardsOpensMainPhase(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startStandardGame(t, m)

	err := m.RespondToAction(context.Background(), inst.ID, testUserOne, ActionThrowCards, MoveCardsToDiscardResponse{})
	require.NoError(t, err)

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		for _, want := range []string{ActionMoveCreature, ActionPlaceCard, ActionStartConfronts, ActionPass} {
			assert.NotNil(t, findAction(inst, testUserOne, want), want)
		}
		require.Len(t, inst.Actions.Previous, 1)
		assert.Equal(t, ActionThrowCards, inst.Actions.Previous[0].Type)
		return nil
	}))
}

func TestPassHandsTurnToNextSeat(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startStandardGame(t, m)

	require.NoError(t, m.RespondToAction(context.Background(), inst.ID, testUserOne, ActionThrowCards, MoveCardsToDiscardResponse{}))
	require.NoError(t, m.RespondToAction(context.Background(), inst.ID, testUserOne, ActionPass, PassResponse{}))

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		// Every leftover action of the first seat is gone.
		for _, a := range inst.Actions.Current {
			assert.Equal(t, testUserTwo, a.User)
		}
		opener := findAction(inst, testUserTwo, ActionThrowCards)
		require.NotNil(t, opener)
		require.NotNil(t, opener.ExpiresAt)
		assert.Greater(t, opener.ExpiresAt.Unix(), time.Now().Unix())
		return nil
	}))
}

func TestRespondToActionUnknownGame(t *testing.T) {
	m, _, _ := newTestManager(t)
	err := m.RespondToAction(context.Background(), 999, testUserOne, ActionPass, PassResponse{})
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRespondToActionMaskedByPriority(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startStandardGame(t, m)

	// The turn opener has priority 10, pass is not visible yet.
	err := m.RespondToAction(context.Background(), inst.ID, testUserOne, ActionPass, PassResponse{})
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestRespondToActionInvalidResponseKeepsActionPending(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startStandardGame(t, m)

	err := m.RespondToAction(context.Background(), inst.ID, testUserOne, ActionThrowCards, MoveCardsToDiscardResponse{HandIDs: []string{"not-a-card"}})
	assert.ErrorIs(t, err, ErrInvalidResponse)

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		require.NotNil(t, findAction(inst, testUserOne, ActionThrowCards))
		assert.Empty(t, inst.Actions.Previous)
		return nil
	}))
}

func TestConcedeEndsGameAndSettlesAccounts(t *testing.T) {
	m, s, recorder := newTestManager(t)
	inst := startStandardGame(t, m)

	require.NoError(t, m.Concede(context.Background(), inst.ID, testUserOne))

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		assert.Equal(t, StatusEnded, inst.Status)
		require.Len(t, inst.Result, 2)
		byUser := map[int]Result{}
		for _, r := range inst.Result {
			byUser[r.User] = r
		}
		assert.Equal(t, "defeat", byUser[testUserOne].Result)
		assert.Equal(t, "victory", byUser[testUserTwo].Result)
		assert.NotEmpty(t, byUser[testUserTwo].Loots)
		return nil
	}))

	loser, err := s.Accounts.GetOrCreate(context.Background(), testUserOne)
	require.NoError(t, err)
	assert.Contains(t, loser.Triumphs, TriumphSpirit)
	require.Len(t, loser.History, 1)
	assert.False(t, loser.History[0].Victory)

	winner, err := s.Accounts.GetOrCreate(context.Background(), testUserTwo)
	require.NoError(t, err)
	assert.Contains(t, winner.Triumphs, "conjurer")
	assert.Contains(t, winner.Triumphs, "healer")
	require.Len(t, winner.History, 1)
	assert.True(t, winner.History[0].Victory)

	assert.NotEmpty(t, recorder.BySubject("Arena:game:victory"))
	assert.NotEmpty(t, recorder.BySubject("Arena:game:defeat"))

	// A second concede finds the game already settled.
	assert.ErrorIs(t, m.Concede(context.Background(), inst.ID, testUserTwo), ErrGameEnded)
}

func TestTickExpiresTimedOutOpener(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startStandardGame(t, m)

	m.Tick(context.Background(), time.Now().Add(time.Minute))

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		assert.Nil(t, findAction(inst, testUserOne, ActionThrowCards))
		// The expired opener threw nothing and opened the main phase.
		assert.NotNil(t, findAction(inst, testUserOne, ActionPass))
		assert.Len(t, inst.CardsOf(testUserOne, LocationHand), HandSize)
		return nil
	}))
}

func TestTickLeavesFreshActionsAlone(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startStandardGame(t, m)

	m.Tick(context.Background(), time.Now())

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		assert.NotNil(t, findAction(inst, testUserOne, ActionThrowCards))
		return nil
	}))
}
