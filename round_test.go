package main

import (
	"math/rand"
	"testing"

	"github.com/samber/lo"
)

func TestGenerateRoundProperties(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 100; i++ {
		round := app.generateRound(app.BuiltinItems, CategoryAlphabets)
		if round == nil || round.Target == nil {
			t.Fatal("Expected a round for a populated category")
		}
		if len(round.Tiles) != TileCount {
			t.Fatalf("Expected %d tiles, got %d", TileCount, len(round.Tiles))
		}

		seen := map[string]bool{}
		targetFound := false
		for _, tile := range round.Tiles {
			if tile.Category != CategoryAlphabets {
				t.Errorf("Tile %s has category %s, want %s", tile.ID, tile.Category, CategoryAlphabets)
			}
			if seen[tile.ID] {
				t.Errorf("Duplicate tile id %s", tile.ID)
			}
			seen[tile.ID] = true
			if tile.ID == round.Target.ID {
				targetFound = true
			}
		}
		if !targetFound {
			t.Error("Target is not a member of the tiles")
		}
	}
}

func TestGenerateRoundShortCategory(t *testing.T) {
	app := newTestApp(t)
	items := []GameItem{
		{ID: "color-1", Value: "Red", Category: CategoryColors, Display: "🔴"},
		{ID: "color-2", Value: "Blue", Category: CategoryColors, Display: "🔵"},
	}

	round := app.generateRound(items, CategoryColors)
	if round == nil {
		t.Fatal("Expected a round despite the tile shortfall")
	}
	if len(round.Tiles) != 2 {
		t.Errorf("Expected exactly the 2 available tiles, got %d", len(round.Tiles))
	}
	if round.Target == nil {
		t.Fatal("Expected a target")
	}
	if round.Target.ID != "color-1" && round.Target.ID != "color-2" {
		t.Errorf("Target %s is not one of the tiles", round.Target.ID)
	}
}

func TestGenerateRoundEmptyCategory(t *testing.T) {
	app := newTestApp(t)
	items := builtinAlphabetItems()

	if round := app.generateRound(items, CategoryColors); round != nil {
		t.Errorf("Expected nil round for an empty category, got %+v", round)
	}
}

func TestGenerateRoundIncludesCustomItemEventually(t *testing.T) {
	app := newTestApp(t)
	app.RandomInt = rand.New(rand.NewSource(7)).Intn
	items := append(testAnimals(), GameItem{
		ID:       "custom-bear",
		Value:    "Bear",
		Category: CategoryAnimals,
		Display:  "🐻",
	})

	for i := 0; i < 200; i++ {
		round := app.generateRound(items, CategoryAnimals)
		if round == nil {
			t.Fatal("Expected a round")
		}
		if lo.ContainsBy(round.Tiles, func(tile GameItem) bool { return tile.ID == "custom-bear" }) {
			return
		}
	}
	t.Error("Custom item never appeared as a candidate tile in 200 rounds")
}

func TestSecureRandomIntBounds(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100} {
		for i := 0; i < 50; i++ {
			got := secureRandomInt(n)
			if got < 0 || got >= n {
				t.Fatalf("secureRandomInt(%d) = %d out of range", n, got)
			}
		}
	}
	if got := secureRandomInt(0); got != 0 {
		t.Errorf("secureRandomInt(0) = %d, want 0", got)
	}
}
