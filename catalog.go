package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// builtinAlphabetItems returns one item per uppercase letter A-Z.
func builtinAlphabetItems() []GameItem {
	letters := strings.Split("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "")
	return lo.Map(letters, func(letter string, _ int) GameItem {
		return GameItem{
			ID:       "alpha-" + letter,
			Value:    letter,
			Category: CategoryAlphabets,
			Display:  letter,
		}
	})
}

// builtinNumberItems returns one item per number 1-100.
func builtinNumberItems() []GameItem {
	return lo.Times(100, func(i int) GameItem {
		n := strconv.Itoa(i + 1)
		return GameItem{
			ID:       "num-" + n,
			Value:    n,
			Category: CategoryNumbers,
			Display:  n,
		}
	})
}

// catalogItems converts curated entries to GameItems, skipping any with
// missing fields so one bad line never takes the catalog down.
func catalogItems(entries []CatalogEntry, category, idPrefix string) []GameItem {
	valid := lo.Filter(entries, func(entry CatalogEntry, _ int) bool {
		if strings.TrimSpace(entry.Value) == "" || strings.TrimSpace(entry.Display) == "" {
			logWarn("Skipping %s entry %q: missing value or display", category, entry.Value)
			return false
		}
		return true
	})
	return lo.Map(valid, func(entry CatalogEntry, i int) GameItem {
		return GameItem{
			ID:       fmt.Sprintf("%s-%d", idPrefix, i+1),
			Value:    entry.Value,
			Category: category,
			Display:  entry.Display,
		}
	})
}

// loadBuiltinCatalog assembles the built-in item set: generated letters and
// numbers plus the curated animal and color entries from the catalog file.
func loadBuiltinCatalog(path string) ([]GameItem, error) {
	logInfo("Loading catalog entries from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	items := builtinAlphabetItems()
	items = append(items, builtinNumberItems()...)
	items = append(items, catalogItems(cf.Animals, CategoryAnimals, "animal")...)
	items = append(items, catalogItems(cf.Colors, CategoryColors, "color")...)
	logInfo("Catalog ready with %d items (%d animals, %d colors)", len(items), len(cf.Animals), len(cf.Colors))
	return items, nil
}

// isKnownCategory reports whether cat is one of the fixed categories.
func isKnownCategory(cat string) bool {
	return lo.Contains(Categories, cat)
}

// newCustomItem validates user input and mints a catalog item with a fresh
// unique id. It never touches the catalog itself; the caller appends.
func newCustomItem(value, display, category string) (GameItem, error) {
	value = strings.TrimSpace(value)
	display = strings.TrimSpace(display)
	if value == "" || display == "" {
		return GameItem{}, errors.New(ErrorEmptyItemFields)
	}
	if !isKnownCategory(category) {
		return GameItem{}, errors.New(ErrorUnknownCategory)
	}
	return GameItem{
		ID:       "custom-" + uuid.NewString(),
		Value:    value,
		Category: category,
		Display:  display,
	}, nil
}
