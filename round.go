package main

import (
	"crypto/rand"
	"math/big"

	"github.com/samber/lo"
)

// secureRandomInt returns a uniform int in [0, n) backed by crypto/rand.
// This is the production random source; tests inject seeded generators.
func secureRandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		logWarn("Error generating random number: %v, using fallback", err)
		return 0
	}
	return int(v.Int64())
}

// generateRound draws up to TileCount distinct tiles from the given
// category and picks the target uniformly among them. Returns nil when the
// category has no items, so a stale target from another category is never
// reused.
func (app *App) generateRound(items []GameItem, category string) *Round {
	candidates := lo.Filter(items, func(item GameItem, _ int) bool {
		return item.Category == category
	})
	if len(candidates) == 0 {
		logWarn("No catalog items for category %q, round unavailable", category)
		return nil
	}

	// SamplesBy clamps to the candidate count, so categories with fewer
	// than TileCount items yield every item they have.
	tiles := lo.SamplesBy(candidates, TileCount, app.RandomInt)
	target := lo.SampleBy(tiles, app.RandomInt)
	return &Round{Tiles: tiles, Target: &target}
}
