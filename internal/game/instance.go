package game

import (
	"time"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
)

// Status is the lifecycle state of a game instance.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// LocalizedString carries the player-facing texts in both supported
// languages. Notifications always ship both.
type LocalizedString struct {
	Fr string `json:"fr"`
	En string `json:"en"`
}

// User is one seat of a game instance. Seats are ordered; the seat index
// decides card orientation on the board.
type User struct {
	User    int    `json:"user"`
	Destiny string `json:"destiny"`
	Origin  string `json:"origin,omitempty"`
	Style   string `json:"style,omitempty"`
}

// Result is the final outcome for one seat.
type Result struct {
	User   int            `json:"user"`
	Result string         `json:"result"`
	Loots  []catalog.Loot `json:"loots"`
}

// Instance is a running game. All mutable fields are guarded by the
// per-instance lock held by the Manager; workers and hooks run with the
// lock already taken.
type Instance struct {
	ID         int         `json:"id"`
	Status     Status      `json:"status"`
	GameTypeID string      `json:"gameTypeId"`
	Theme      string      `json:"theme,omitempty"`
	Users      []User      `json:"users"`
	Modifiers  ModifierSet `json:"modifiers"`
	Cards      []*Card     `json:"cards"`
	Actions    ActionSets  `json:"actions"`
	Result     []Result    `json:"result,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ActionSets splits actions into the pending pool and the archive.
type ActionSets struct {
	Current  []*Action       `json:"current"`
	Previous []*PassedAction `json:"previous"`
}

// SeatIndex returns the position of the user in the seat order, -1 when
// the user does not play in this instance.
func (i *Instance) SeatIndex(user int) int {
	for idx, u := range i.Users {
		if u.User == user {
			return idx
		}
	}
	return -1
}

// NextUser returns the seat after the given user, wrapping around.
func (i *Instance) NextUser(user int) int {
	idx := i.SeatIndex(user)
	if idx < 0 {
		return user
	}
	return i.Users[(idx+1)%len(i.Users)].User
}

// CardsOf returns the cards of a user in the given location.
func (i *Instance) CardsOf(user int, loc Location) []*Card {
	var out []*Card
	for _, c := range i.Cards {
		if c.User == user && c.Location == loc {
			out = append(out, c)
		}
	}
	return out
}

// CardsIn returns every card in the given location, any owner.
func (i *Instance) CardsIn(loc Location) []*Card {
	var out []*Card
	for _, c := range i.Cards {
		if c.Location == loc {
			out = append(out, c)
		}
	}
	return out
}

// CardAt returns the board card at the given coordinates, nil when the
// square is empty.
func (i *Instance) CardAt(coords Coords) *Card {
	for _, c := range i.Cards {
		if c.Location == LocationBoard && c.Coords != nil && *c.Coords == coords {
			return c
		}
	}
	return nil
}

// CardByID returns the card with the given instance-unique ID.
func (i *Instance) CardByID(id string) *Card {
	for _, c := range i.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// PlayerCard returns the avatar card of a user on the board.
func (i *Instance) PlayerCard(user int) *Card {
	for _, c := range i.Cards {
		if c.User == user && c.Location == LocationBoard && c.Card.Type == catalog.CardTypePlayer {
			return c
		}
	}
	return nil
}

// UserIDs returns the user identifiers of every seat.
func (i *Instance) UserIDs() []int {
	ids := make([]int, len(i.Users))
	for idx, u := range i.Users {
		ids[idx] = u.User
	}
	return ids
}
