package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startModifiedGame(t *testing.T, m *Manager, modifiers ModifierSet) *Instance {
	t.Helper()
	inst, err := m.CreateInstance(context.Background(), "standard", []User{
		{User: testUserOne, Destiny: "hunter"},
		{User: testUserTwo, Destiny: "conjurer"},
	}, modifiers)
	require.NoError(t, err)
	return inst
}

func countCards(inst *Instance, user int, cardID string, locations ...Location) int {
	n := 0
	for _, c := range inst.Cards {
		if c.User != user || c.Card.ID != cardID {
			continue
		}
		for _, loc := range locations {
			if c.Location == loc {
				n++
				break
			}
		}
	}
	return n
}

func TestGoldenGalleonsSeedTheDecks(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startModifiedGame(t, m, ModifierSet{ModifierGoldenGalleons})

	for _, user := range []int{testUserOne, testUserTwo} {
		got := countCards(inst, user, "golden-galleon", LocationDeck, LocationHand)
		assert.Equal(t, 6, got, "user %d", user)
	}
}

func TestSouvenirsSeedOpponentKeepsake(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startModifiedGame(t, m, ModifierSet{ModifierSouvenirs})

	assert.Equal(t, 4, countCards(inst, testUserOne, "conjurer-souvenir", LocationDeck, LocationHand))
	assert.Equal(t, 4, countCards(inst, testUserTwo, "hunter-souvenir", LocationDeck, LocationHand))
}

func TestTricksSeedTheDecks(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startModifiedGame(t, m, ModifierSet{ModifierTricks})

	for _, user := range []int{testUserOne, testUserTwo} {
		got := countCards(inst, user, "trick-or-treat", LocationDeck, LocationHand)
		assert.Equal(t, 6, got, "user %d", user)
	}
}

func TestAnnihilationMattsSpawnTowers(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startModifiedGame(t, m, ModifierSet{ModifierAnnihilationMatts})

	for _, coords := range []Coords{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 1, Y: 5}, {X: 5, Y: 5}} {
		tower := inst.CardAt(coords)
		require.NotNil(t, tower, coords.String())
		assert.Equal(t, "the-tower", tower.Card.ID)
		assert.Equal(t, NeutralUser, tower.User)
	}
}

func TestGoldenGalleonsHeldConvertToShopPoints(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startModifiedGame(t, m, ModifierSet{ModifierGoldenGalleons})

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		moved := 0
		for _, c := range inst.Cards {
			if c.User == testUserTwo && c.Card.ID == "golden-galleon" && c.Location == LocationDeck && moved < 2 {
				c.Location = LocationHand
				moved++
			}
		}
		return nil
	}))

	require.NoError(t, m.Concede(context.Background(), inst.ID, testUserOne))

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		var winner Result
		for _, r := range inst.Result {
			if r.User == testUserTwo {
				winner = r
			}
		}
		found := 0
		for _, l := range winner.Loots {
			if l.Name == "shop-point" {
				found = l.Num
			}
		}
		// Opening hands may have drawn extra galleons on top of the two
		// moved by hand.
		assert.GreaterOrEqual(t, found, 2)
		return nil
	}))
}

func TestHarvestingSoulsDoublesShards(t *testing.T) {
	m, _, _ := newTestManager(t)
	inst := startModifiedGame(t, m, ModifierSet{ModifierHarvestingSouls})

	require.NoError(t, m.Concede(context.Background(), inst.ID, testUserOne))

	require.NoError(t, m.View(inst.ID, func(inst *Instance) error {
		for _, r := range inst.Result {
			want := 20 // defeat shards doubled
			if r.User == testUserTwo {
				want = 60 // victory shards doubled
			}
			got := 0
			for _, l := range r.Loots {
				if l.Name == "shard" {
					got = l.Num
				}
			}
			assert.Equal(t, want, got, "user %d", r.User)
		}
		return nil
	}))
}
