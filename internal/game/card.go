package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// BoardSize is the side length of the square board. Coordinates run from
// 0 to BoardSize-1 on both axes.
const BoardSize = 7

// NeutralUser owns board fixtures that belong to no seat.
const NeutralUser = 0

// Location is the zone a card currently sits in.
type Location string

const (
	LocationDeck    Location = "deck"
	LocationHand    Location = "hand"
	LocationBoard   Location = "board"
	LocationDiscard Location = "discard"
	LocationBanned  Location = "banned"
)

// Coords is a board position.
type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String encodes the coordinates in the "x-y" wire format.
func (c Coords) String() string {
	return fmt.Sprintf("%d-%d", c.X, c.Y)
}

// ParseCoords decodes the "x-y" wire format.
func ParseCoords(s string) (Coords, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Coords{}, fmt.Errorf("invalid coords %q", s)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return Coords{}, fmt.Errorf("invalid coords %q", s)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return Coords{}, fmt.Errorf("invalid coords %q", s)
	}
	return Coords{X: x, Y: y}, nil
}

// OnBoard reports whether the coordinates fall inside the board.
func (c Coords) OnBoard() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// Adjacent returns the orthogonal neighbours inside the board.
func (c Coords) Adjacent() []Coords {
	candidates := []Coords{
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
	}
	out := candidates[:0]
	for _, cand := range candidates {
		if cand.OnBoard() {
			out = append(out, cand)
		}
	}
	return out
}

// Card is one card owned by a game instance. It is moved between zones by
// mutating Location and Coords, never duplicated.
type Card struct {
	ID           string             `json:"id"`
	Card         *catalog.Card      `json:"card"`
	User         int                `json:"user"`
	Location     Location           `json:"location"`
	Coords       *Coords            `json:"coords,omitempty"`
	CurrentStats *catalog.CardStats `json:"currentStats,omitempty"`
	Metadata     map[string]int     `json:"metadata,omitempty"`
}

// Meta returns the metadata counter with the given name, 0 when unset.
func (c *Card) Meta(name string) int {
	if c.Metadata == nil {
		return 0
	}
	return c.Metadata[name]
}

// SetMeta sets a metadata counter.
func (c *Card) SetMeta(name string, value int) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]int)
	}
	c.Metadata[name] = value
}
