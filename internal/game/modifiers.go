package game

// Modifier alters the setup or the rewards of a game instance.
type Modifier string

const (
	// ModifierGoldenGalleons seeds golden-galleon cards in the decks and
	// converts the ones held at the end of the game into shop currency.
	ModifierGoldenGalleons Modifier = "golden-galleons"
	// ModifierGreatAncients seeds great-ancient-egg cards in the decks.
	ModifierGreatAncients Modifier = "great-ancients-eggs"
	// ModifierSouvenirs seeds souvenir cards of the opposing destiny in
	// each deck.
	ModifierSouvenirs Modifier = "souvenirs-from-your-enemy"
	// ModifierAnnihilationMatts spawns towers on the board at start.
	ModifierAnnihilationMatts Modifier = "annihilation-matts"
	// ModifierHarvestingSouls seeds blood-strength cards in the decks and
	// doubles the shard loots of the game.
	ModifierHarvestingSouls Modifier = "harvesting-souls"
	// ModifierImmediate skips matchmaking grace periods.
	ModifierImmediate Modifier = "immediate"
	// ModifierDaily marks the instance as a daily ranked game.
	ModifierDaily Modifier = "daily"
	// ModifierCycle marks the instance as a cycle ranked game.
	ModifierCycle Modifier = "cycle"
	// ModifierTricks seeds trick-or-treat cards in the decks.
	ModifierTricks Modifier = "trick-or-treat"
)

// ModifierSet is the set of modifiers active on an instance. The zero
// value is an empty set.
type ModifierSet []Modifier

// Has reports whether the modifier is active.
func (s ModifierSet) Has(m Modifier) bool {
	for _, cand := range s {
		if cand == m {
			return true
		}
	}
	return false
}

// Add returns a set with the modifier included, without duplicates.
func (s ModifierSet) Add(m Modifier) ModifierSet {
	if s.Has(m) {
		return s
	}
	return append(s, m)
}
