package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"
)

var ErrNotFound = errors.New("rate not found")

const bom = "\ufeff"

type Entry struct {
	Item string
	Rate string
}

type Source interface {
	Load(ctx context.Context) ([]Entry, error)
	Name() string
}

// Table maps normalized item names to GST rate strings. It is rebuilt
// wholesale by Reload and lazily when a lookup finds it empty.
type Table struct {
	source  Source
	mu      sync.RWMutex
	entries map[string]string
}

func NewTable(source Source) *Table {
	return &Table{
		source:  source,
		entries: map[string]string{},
	}
}

func (t *Table) Reload(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = map[string]string{}

	loaded, err := t.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("rates reload from %s: %w", t.source.Name(), err)
	}

	for _, e := range loaded {
		key := Normalize(e.Item)
		if key == "" {
			continue
		}
		if _, dup := t.entries[key]; dup {
			slog.Debug("duplicate rate entry overwritten", "item", key, "source", t.source.Name())
		}
		t.entries[key] = e.Rate
	}

	slog.Info("rate table loaded", "source", t.source.Name(), "entries", len(t.entries))
	return nil
}

func (t *Table) Lookup(ctx context.Context, item string) (string, error) {
	if t.Len() == 0 {
		if err := t.Reload(ctx); err != nil {
			return "", err
		}
	}

	t.mu.RLock()
	rate := t.entries[Normalize(item)]
	t.mu.RUnlock()

	if rate == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, item)
	}
	return rate, nil
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Normalize strips a byte-order mark, lowercases and drops every whitespace
// rune, so "Mobile Phones", " mobile phones " and "MOBILEPHONES" share a key.
func Normalize(item string) string {
	item = strings.TrimPrefix(item, bom)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, item)
}
