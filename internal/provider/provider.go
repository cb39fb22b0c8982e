// Package provider contains the item source backends. A provider turns
// backend records into uniform items: calendar entries become events
// with raw timestamps (the item package clamps them to the current
// day), issues and todos become tasks with an optional due date.
package provider

import (
	"context"
	"fmt"
	"time"

	"zettel/internal/config"
	"zettel/internal/item"
	appLog "zettel/internal/log"
)

// Provider is a single item backend.
type Provider interface {
	// Name labels the provider in logs.
	Name() string

	// Fetch returns all items the backend currently provides. It must
	// not alter backend data, so repeated calls give reproducible
	// results.
	Fetch(ctx context.Context) ([]*item.Item, error)
}

// FromConfig builds a provider from its config section. loc is the
// display time zone date-only values are interpreted in.
func FromConfig(cfg config.ProviderConfig, loc *time.Location) (Provider, error) {
	switch cfg.Type {
	case "ics":
		return NewICS(cfg.Name, cfg.URL, cfg.CacheDir, loc)
	case "jira":
		return NewJira(cfg, loc)
	case "tasks":
		return NewTaskFile(cfg.Name, cfg.Path, loc)
	default:
		return nil, fmt.Errorf("provider: unknown type %q", cfg.Type)
	}
}

// FetchAll collects the items of all providers into one bucket. A
// failing provider is logged and skipped so a single unreachable
// backend does not lose the whole agenda.
func FetchAll(ctx context.Context, providers []Provider) *item.Bucket[*item.Item] {
	bucket := item.NewBucket[*item.Item]()

	for _, p := range providers {
		items, err := p.Fetch(ctx)
		if err != nil {
			appLog.Error("provider fetch failed", err, "provider", p.Name())
			continue
		}
		appLog.Info("provider fetch completed", "provider", p.Name(), "item_count", len(items))
		bucket.Add(items...)
	}

	return bucket
}
