package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/totoapp/expenses-client/internal/domain"
)

// Package storage keeps a local journal of mutating API calls.

// Journal records mutating calls for later inspection. It is an audit trail
// only and is never used to replay or cache requests.
type Journal interface {
	Close() error
	Record(entry domain.JournalEntry) error
	Recent(limit int) ([]domain.JournalEntry, error)
}

// Options controls retention characteristics for concrete journal implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewJournal creates the configured journal backend.
func NewJournal(typ, path string, opts Options) (Journal, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopJournal{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopJournal struct{}

func (noopJournal) Close() error                              { return nil }
func (noopJournal) Record(domain.JournalEntry) error          { return nil }
func (noopJournal) Recent(int) ([]domain.JournalEntry, error) { return nil, nil }
