package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

func TestPlaceCardPutsCreatureNextToOwnCards(t *testing.T) {
	s, inst := newBoardFixture(t)
	addCard(t, s, inst, "hunter", testUserOne, LocationBoard, &Coords{X: 3, Y: 0})
	banshee := addCard(t, s, inst, "banshee", testUserOne, LocationHand, nil)

	action, err := s.Workers.CreateAction(context.Background(), inst, ActionPlaceCard, testUserOne)
	require.NoError(t, err)
	params := action.Interaction.Params.(PutCardOnBoardParams)
	assert.Contains(t, params.HandIDs, banshee.ID)
	assert.Contains(t, params.Squares, "2-0")

	action.Interaction.Response = PutCardOnBoardResponse{HandID: banshee.ID, Square: "2-0"}
	w, err := s.Workers.Get(ActionPlaceCard)
	require.NoError(t, err)
	ok, err := w.Execute(context.Background(), inst, action)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, LocationBoard, banshee.Location)
	assert.Equal(t, Coords{X: 2, Y: 0}, *banshee.Coords)
	require.NotNil(t, banshee.CurrentStats)
	assert.Equal(t, 2, banshee.CurrentStats.Life)
}

func TestPlaceCardRejectsDetachedSquare(t *testing.T) {
	s, inst := newBoardFixture(t)
	addCard(t, s, inst, "hunter", testUserOne, LocationBoard, &Coords{X: 3, Y: 0})
	banshee := addCard(t, s, inst, "banshee", testUserOne, LocationHand, nil)

	action, err := s.Workers.CreateAction(context.Background(), inst, ActionPlaceCard, testUserOne)
	require.NoError(t, err)
	action.Interaction.Response = PutCardOnBoardResponse{HandID: banshee.ID, Square: "5-5"}
	w, err := s.Workers.Get(ActionPlaceCard)
	require.NoError(t, err)
	ok, err := w.Execute(context.Background(), inst, action)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, LocationHand, banshee.Location)
}

func TestPlaceCardProgressesPlayQuests(t *testing.T) {
	s, inst := newBoardFixture(t)
	addCard(t, s, inst, "hunter", testUserOne, LocationBoard, &Coords{X: 3, Y: 0})
	banshee := addCard(t, s, inst, "banshee", testUserOne, LocationHand, nil)

	acct, err := s.Accounts.GetOrCreate(context.Background(), testUserOne)
	require.NoError(t, err)
	acct.QuestsProgress = []wizard.UserQuest{
		{ID: "q1", ObjectiveType: wizard.ObjectivePlayCreatures, ObjectiveTarget: 5},
		{ID: "q2", ObjectiveType: wizard.ObjectivePlayCreaturesOrArtifacts, ObjectiveTarget: 5},
	}
	require.NoError(t, s.Accounts.Save(context.Background(), acct))

	action, err := s.Workers.CreateAction(context.Background(), inst, ActionPlaceCard, testUserOne)
	require.NoError(t, err)
	action.Interaction.Response = PutCardOnBoardResponse{HandID: banshee.ID, Square: "2-0"}
	w, err := s.Workers.Get(ActionPlaceCard)
	require.NoError(t, err)
	ok, err := w.Execute(context.Background(), inst, action)
	require.NoError(t, err)
	require.True(t, ok)

	acct, err = s.Accounts.GetOrCreate(context.Background(), testUserOne)
	require.NoError(t, err)
	assert.Equal(t, 1, acct.QuestsProgress[0].ObjectiveCurrent)
	assert.Equal(t, 1, acct.QuestsProgress[1].ObjectiveCurrent)
}

func TestMoveCreatureStepsToFreeAdjacentSquare(t *testing.T) {
	s, inst := newBoardFixture(t)
	banshee := addCard(t, s, inst, "banshee", testUserOne, LocationBoard, &Coords{X: 2, Y: 2})

	action, err := s.Workers.CreateAction(context.Background(), inst, ActionMoveCreature, testUserOne)
	require.NoError(t, err)
	action.Interaction.Response = MoveCardOnBoardResponse{Card: banshee.ID, Square: "2-3"}
	w, err := s.Workers.Get(ActionMoveCreature)
	require.NoError(t, err)
	ok, err := w.Execute(context.Background(), inst, action)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Coords{X: 2, Y: 3}, *banshee.Coords)
}

func TestMoveCreatureCannotLandOnOccupiedSquare(t *testing.T) {
	s, inst := newBoardFixture(t)
	banshee := addCard(t, s, inst, "banshee", testUserOne, LocationBoard, &Coords{X: 2, Y: 2})
	addCard(t, s, inst, "fox", testUserTwo, LocationBoard, &Coords{X: 2, Y: 3})

	action, err := s.Workers.CreateAction(context.Background(), inst, ActionMoveCreature, testUserOne)
	require.NoError(t, err)
	action.Interaction.Response = MoveCardOnBoardResponse{Card: banshee.ID, Square: "2-3"}
	w, err := s.Workers.Get(ActionMoveCreature)
	require.NoError(t, err)
	ok, err := w.Execute(context.Background(), inst, action)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Coords{X: 2, Y: 2}, *banshee.Coords)
}

func TestAvatarCannotMove(t *testing.T) {
	s, inst := newBoardFixture(t)
	addCard(t, s, inst, "hunter", testUserOne, LocationBoard, &Coords{X: 3, Y: 0})

	action, err := s.Workers.CreateAction(context.Background(), inst, ActionMoveCreature, testUserOne)
	require.NoError(t, err)
	params := action.Interaction.Params.(MoveCardOnBoardParams)
	assert.Empty(t, params.Possibilities)
}
