package catalog

// DefaultCards returns the built-in card set used by development runs and
// tests when no rest service is configured.
func DefaultCards() []*Card {
	playerStats := func() *CardStats {
		return &CardStats{
			Life:   20,
			Top:    Facet{Strength: 1, Defense: 2},
			Right:  Facet{Strength: 1, Defense: 2},
			Bottom: Facet{Strength: 1, Defense: 2},
			Left:   Facet{Strength: 1, Defense: 2},
		}
	}

	return []*Card{
		{ID: "hunter", Name: "Hunter", Type: CardTypePlayer, Stats: playerStats()},
		{ID: "conjurer", Name: "Conjurer", Type: CardTypePlayer, Stats: playerStats()},
		{ID: "summoner", Name: "Summoner", Type: CardTypePlayer, Stats: playerStats()},
		{ID: "sorcerer", Name: "Sorcerer", Type: CardTypePlayer, Stats: playerStats()},

		{ID: "banshee", Name: "Banshee", Type: CardTypeCreature, Stats: &CardStats{
			Life:   2,
			Top:    Facet{Strength: 2, Defense: 1},
			Right:  Facet{Strength: 1, Defense: 1},
			Bottom: Facet{Strength: 1, Defense: 2},
			Left:   Facet{Strength: 1, Defense: 1},
		}},
		{ID: "fox", Name: "Fox", Type: CardTypeCreature, Stats: &CardStats{
			Life:   3,
			Top:    Facet{Strength: 2, Defense: 0},
			Right:  Facet{Strength: 2, Defense: 0},
			Bottom: Facet{Strength: 0, Defense: 1},
			Left:   Facet{Strength: 2, Defense: 0},
		}},
		{ID: "great-ancient-egg", Name: "Great Ancient's Egg", Type: CardTypeCreature, Stats: &CardStats{
			Life:   4,
			Top:    Facet{Defense: 1},
			Right:  Facet{Defense: 1},
			Bottom: Facet{Defense: 1},
			Left:   Facet{Defense: 1},
		}},

		{ID: "the-tower", Name: "The Tower", Type: CardTypeArtifact, Stats: &CardStats{
			Life:   5,
			Top:    Facet{Defense: 2},
			Right:  Facet{Defense: 2},
			Bottom: Facet{Defense: 2},
			Left:   Facet{Defense: 2},
		}},
		{ID: "insanes-echo", Name: "Insane's Echo", Type: CardTypeArtifact, Stats: &CardStats{
			Life:   3,
			Top:    Facet{Defense: 1},
			Right:  Facet{Defense: 1},
			Bottom: Facet{Defense: 1},
			Left:   Facet{Defense: 1},
		}},
		{ID: "golden-galleon", Name: "Golden Galleon", Type: CardTypeArtifact, Stats: &CardStats{Life: 1}},
		{ID: "hunter-souvenir", Name: "Hunter's Souvenir", Type: CardTypeArtifact, Stats: &CardStats{Life: 1}},
		{ID: "conjurer-souvenir", Name: "Conjurer's Souvenir", Type: CardTypeArtifact, Stats: &CardStats{Life: 1}},
		{ID: "summoner-souvenir", Name: "Summoner's Souvenir", Type: CardTypeArtifact, Stats: &CardStats{Life: 1}},
		{ID: "sorcerer-souvenir", Name: "Sorcerer's Souvenir", Type: CardTypeArtifact, Stats: &CardStats{Life: 1}},

		{ID: "heal", Name: "Heal", Type: CardTypeSpell},
		{ID: "ruin", Name: "Ruin", Type: CardTypeSpell},
		{ID: "ether", Name: "Ether", Type: CardTypeSpell},
		{ID: "reinforcement", Name: "Reinforcement", Type: CardTypeSpell},
		{ID: "blood-strength", Name: "Blood Strength", Type: CardTypeSpell},
		{ID: "trick-or-treat", Name: "Trick or Treat", Type: CardTypeSpell},
	}
}

// DefaultGameTypes returns the built-in game-type set.
func DefaultGameTypes() []*GameType {
	destinies := []string{"hunter", "conjurer", "summoner", "sorcerer"}
	origins := []string{"healer", "surgeon", "architect", "smuggler"}

	deck := []DeckItem{
		{CardID: "banshee", Num: 8},
		{CardID: "fox", Num: 4},
		{CardID: "the-tower", Num: 2},
		{CardID: "insanes-echo", Num: 1},
		{CardID: "heal", Num: 2},
		{CardID: "ruin", Num: 2},
		{CardID: "ether", Num: 1},
		{CardID: "reinforcement", Num: 2},
	}
	decks := make(map[string][]DeckItem, len(destinies))
	for _, d := range destinies {
		decks[d] = deck
	}

	return []*GameType{
		{
			ID:        "standard",
			Name:      "Standard",
			Destinies: destinies,
			Origins:   origins,
			Themes:    []string{"dead-forest", "spine-s-cave", "forgotten-cemetery"},
			Loots: LootSet{
				Victory: []Loot{{Name: "victory-mark", Num: 1}, {Name: "shard", Num: 30}},
				Defeat:  []Loot{{Name: "defeat-mark", Num: 1}, {Name: "shard", Num: 10}},
			},
			Decks: decks,
		},
		{
			ID:        "tutorial",
			Name:      "Tutorial",
			Destinies: destinies,
			Origins:   origins,
			Themes:    []string{"dead-forest"},
			Loots: LootSet{
				Victory: []Loot{{Name: "shard", Num: 15}},
				Defeat:  []Loot{{Name: "shard", Num: 5}},
			},
			Decks: decks,
		},
	}
}
