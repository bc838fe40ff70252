// Package catalog provides read-only access to the card and game-type
// reference data served by the rest service. Entries are immutable and
// cached forever once fetched.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the catalog has no entry for the given id.
var ErrNotFound = errors.New("catalog: entry not found")

// CardType enumerates the kinds of cards the engine knows about.
type CardType string

const (
	CardTypePlayer   CardType = "player"
	CardTypeCreature CardType = "creature"
	CardTypeArtifact CardType = "artifact"
	CardTypeSpell    CardType = "spell"
)

// Facet is one side of a card: what it hits with and what it blocks with.
type Facet struct {
	Strength int `json:"strength"`
	Defense  int `json:"defense"`
}

// CardStats is the combat profile of a card. Board cards carry an
// independent mutable copy of these in the game instance.
type CardStats struct {
	Life   int   `json:"life"`
	Top    Facet `json:"top"`
	Right  Facet `json:"right"`
	Bottom Facet `json:"bottom"`
	Left   Facet `json:"left"`
}

// Copy returns an independent copy of the stats.
func (s *CardStats) Copy() *CardStats {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Card is a reference card definition.
type Card struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Type  CardType   `json:"type"`
	Stats *CardStats `json:"stats,omitempty"`
}

// Loot is a named, quantified reward.
type Loot struct {
	Name string `json:"name"`
	Num  int    `json:"num"`
}

// LootSet holds the rewards a game type grants per outcome.
type LootSet struct {
	Victory []Loot `json:"victory"`
	Defeat  []Loot `json:"defeat"`
}

// DeckItem is one entry of a deck list.
type DeckItem struct {
	CardID string `json:"card"`
	Num    int    `json:"num"`
}

// GameType is a reference game-type definition.
type GameType struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Destinies []string              `json:"destinies"`
	Origins   []string              `json:"origins"`
	Themes    []string              `json:"themes"`
	Loots     LootSet               `json:"loots"`
	Decks     map[string][]DeckItem `json:"decks"`
}

// Service fetches and caches reference data. A Service constructed with
// Static never goes to the network.
type Service struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu        sync.RWMutex
	cards     map[string]*Card
	gameTypes map[string]*GameType
}

// NewService creates a catalog service backed by the rest API at baseURL.
func NewService(baseURL string, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		cards:     make(map[string]*Card),
		gameTypes: make(map[string]*GameType),
	}
}

// Static creates a catalog service preloaded with the given entries and no
// remote backend. Lookups that miss the preloaded set fail with ErrNotFound.
func Static(cards []*Card, gameTypes []*GameType) *Service {
	s := &Service{
		logger:    zap.NewNop(),
		cards:     make(map[string]*Card, len(cards)),
		gameTypes: make(map[string]*GameType, len(gameTypes)),
	}
	for _, c := range cards {
		s.cards[c.ID] = c
	}
	for _, gt := range gameTypes {
		s.gameTypes[gt.ID] = gt
	}
	return s
}

// Card returns the card definition with the given id.
func (s *Service) Card(ctx context.Context, id string) (*Card, error) {
	s.mu.RLock()
	card, ok := s.cards[id]
	s.mu.RUnlock()
	if ok {
		return card, nil
	}
	if s.client == nil {
		return nil, fmt.Errorf("%w: card %q", ErrNotFound, id)
	}

	card = &Card{}
	if err := s.fetch(ctx, "/rest/cards/"+id, card); err != nil {
		return nil, fmt.Errorf("fetch card %q: %w", id, err)
	}

	s.mu.Lock()
	s.cards[id] = card
	s.mu.Unlock()
	return card, nil
}

// GameType returns the game-type definition with the given id.
func (s *Service) GameType(ctx context.Context, id string) (*GameType, error) {
	s.mu.RLock()
	gt, ok := s.gameTypes[id]
	s.mu.RUnlock()
	if ok {
		return gt, nil
	}
	if s.client == nil {
		return nil, fmt.Errorf("%w: game type %q", ErrNotFound, id)
	}

	gt = &GameType{}
	if err := s.fetch(ctx, "/rest/game-types/"+id, gt); err != nil {
		return nil, fmt.Errorf("fetch game type %q: %w", id, err)
	}

	s.mu.Lock()
	s.gameTypes[id] = gt
	s.mu.Unlock()
	return gt, nil
}

func (s *Service) fetch(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
