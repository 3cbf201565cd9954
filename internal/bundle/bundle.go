// Package bundle moves sounds, items and rules between a JSON file and the
// stores. Bundles are validated against the embedded bundle schema before
// they are decoded.
package bundle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/repository"
	"github.com/osse101/ThrowBot_Go/internal/validation"
)

// Bundle is a portable set of assets and rules. Cross references use ids,
// so every entry carries one.
type Bundle struct {
	Sounds []domain.Sound `json:"sounds"`
	Items  []domain.Item  `json:"items"`
	Rules  []domain.Rule  `json:"rules"`
}

// Summary counts what Apply did per kind
type Summary struct {
	SoundsCreated int `json:"sounds_created"`
	SoundsSkipped int `json:"sounds_skipped"`
	ItemsCreated  int `json:"items_created"`
	ItemsSkipped  int `json:"items_skipped"`
	RulesCreated  int `json:"rules_created"`
	RulesUpdated  int `json:"rules_updated"`
}

// Load validates the file at path against the bundle schema and decodes it
func Load(path string, v validation.SchemaValidator) (*Bundle, error) {
	if err := v.ValidateFile(path, validation.SchemaBundle); err != nil {
		return nil, err
	}

	var b Bundle
	if err := readJSON(path, &b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate applies the domain rules the schema cannot express
func (b *Bundle) Validate() error {
	seen := make(map[uuid.UUID]struct{}, len(b.Rules))
	for _, rule := range b.Rules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		if _, dup := seen[rule.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rule.ID)
		}
		seen[rule.ID] = struct{}{}
	}
	for i := range b.Items {
		if b.Items[i].Scale == 0 {
			b.Items[i].Scale = domain.DefaultItemScale
		}
		if b.Items[i].Weight == 0 {
			b.Items[i].Weight = domain.DefaultItemWeight
		}
	}
	return nil
}

// Apply writes sounds, then items, then rules so references resolve in order.
// Assets that already exist are left untouched; existing rules are replaced.
func Apply(ctx context.Context, b *Bundle, assets repository.Asset, rules repository.Rule) (Summary, error) {
	var sum Summary

	existingSounds, err := assets.GetSounds(ctx, soundIDs(b.Sounds))
	if err != nil {
		return sum, fmt.Errorf("%s: %w", ErrMsgLookupFailed, err)
	}
	have := make(map[uuid.UUID]bool, len(existingSounds))
	for _, s := range existingSounds {
		have[s.ID] = true
	}
	for i := range b.Sounds {
		if have[b.Sounds[i].ID] {
			sum.SoundsSkipped++
			continue
		}
		if err := assets.CreateSound(ctx, &b.Sounds[i]); err != nil {
			return sum, fmt.Errorf("sound %q: %w", b.Sounds[i].Name, err)
		}
		sum.SoundsCreated++
	}

	existingItems, err := assets.GetItems(ctx, itemIDs(b.Items))
	if err != nil {
		return sum, fmt.Errorf("%s: %w", ErrMsgLookupFailed, err)
	}
	have = make(map[uuid.UUID]bool, len(existingItems))
	for _, it := range existingItems {
		have[it.ID] = true
	}
	for i := range b.Items {
		if have[b.Items[i].ID] {
			sum.ItemsSkipped++
			continue
		}
		if err := assets.CreateItem(ctx, &b.Items[i]); err != nil {
			return sum, fmt.Errorf("item %q: %w", b.Items[i].Name, err)
		}
		sum.ItemsCreated++
	}

	for i := range b.Rules {
		rule := &b.Rules[i]
		_, err := rules.Get(ctx, rule.ID)
		switch {
		case errors.Is(err, domain.ErrRuleNotFound):
			if err := rules.Create(ctx, rule); err != nil {
				return sum, fmt.Errorf("rule %q: %w", rule.Name, err)
			}
			sum.RulesCreated++
		case err != nil:
			return sum, fmt.Errorf("%s: %w", ErrMsgLookupFailed, err)
		default:
			if err := rules.Update(ctx, rule); err != nil {
				return sum, fmt.Errorf("rule %q: %w", rule.Name, err)
			}
			sum.RulesUpdated++
		}
	}

	return sum, nil
}

// Export collects every sound, item and rule into a bundle
func Export(ctx context.Context, assets repository.Asset, rules repository.Rule) (*Bundle, error) {
	sounds, err := assets.ListSounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgExportFailed, err)
	}
	items, err := assets.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgExportFailed, err)
	}
	all, err := rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgExportFailed, err)
	}
	return &Bundle{Sounds: sounds, Items: items, Rules: all}, nil
}

// Save writes the bundle to path
func Save(path string, b *Bundle) error {
	return writeJSON(path, b)
}

func soundIDs(sounds []domain.Sound) []uuid.UUID {
	ids := make([]uuid.UUID, len(sounds))
	for i, s := range sounds {
		ids[i] = s.ID
	}
	return ids
}

func itemIDs(items []domain.Item) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
