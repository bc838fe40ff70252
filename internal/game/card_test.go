package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordsRoundTrip(t *testing.T) {
	c := Coords{X: 3, Y: 6}
	parsed, err := ParseCoords(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestParseCoordsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "3", "a-b", "3-", "-4"} {
		_, err := ParseCoords(in)
		assert.Error(t, err, in)
	}
}

func TestAdjacentClipsAtBoardEdge(t *testing.T) {
	corner := Coords{X: 0, Y: 0}
	assert.ElementsMatch(t, []Coords{{X: 0, Y: 1}, {X: 1, Y: 0}}, corner.Adjacent())

	center := Coords{X: 3, Y: 3}
	assert.Len(t, center.Adjacent(), 4)
}

func TestCardMetadata(t *testing.T) {
	c := &Card{}
	assert.Equal(t, 0, c.Meta("casts"))
	c.SetMeta("casts", 2)
	assert.Equal(t, 2, c.Meta("casts"))
}
