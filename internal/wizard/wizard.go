// Package wizard holds the player account entity, its persistence and the
// progression ledger (quests, triumphs, loot).
package wizard

import "github.com/thefirstspine/arena-server-go/internal/catalog"

// Wizard is a player account.
type Wizard struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	History        []HistoryItem `json:"history"`
	QuestsProgress []UserQuest   `json:"questsProgress"`
	Triumphs       []string      `json:"triumphs"`
	Items          []Item        `json:"items"`
}

// HistoryItem records one finished game.
type HistoryItem struct {
	GameID     int    `json:"gameId"`
	GameTypeID string `json:"gameTypeId"`
	Victory    bool   `json:"victory"`
	Timestamp  int64  `json:"timestamp"`
}

// UserQuest is an account-level objective in progress.
type UserQuest struct {
	ID               string         `json:"id"`
	ObjectiveType    string         `json:"objectiveType"`
	ObjectiveCurrent int            `json:"objectiveCurrent"`
	ObjectiveTarget  int            `json:"objectiveTarget"`
	Loots            []catalog.Loot `json:"loots"`
}

// Item is a counted inventory entry.
type Item struct {
	Name string `json:"name"`
	Num  int    `json:"num"`
}

// New returns a fresh account for the given user id.
func New(id int) *Wizard {
	return &Wizard{
		ID:             id,
		History:        []HistoryItem{},
		QuestsProgress: []UserQuest{},
		Triumphs:       []string{},
		Items:          []Item{},
	}
}

// HasTriumph reports whether the account already unlocked the triumph.
func (w *Wizard) HasTriumph(name string) bool {
	for _, t := range w.Triumphs {
		if t == name {
			return true
		}
	}
	return false
}
