package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/totoapp/expenses-client/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	journalBucket  = "journal"
	timestampBytes = 8
)

// boltJournal implements a Journal backed by BoltDB. Keys are the entry time
// in big-endian nanoseconds followed by the entry id, so cursor order is time order.
type boltJournal struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Journal.
func openBolt(path string, opts Options) (Journal, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(journalBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	journal := &boltJournal{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	journal.lastCleanup.Store(time.Now().Unix())
	return journal, nil
}

// Close closes the BoltDB journal.
func (b *boltJournal) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record appends an entry, assigning an id and timestamp when missing.
func (b *boltJournal) Record(entry domain.JournalEntry) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = now
	}
	entry.At = entry.At.UTC()

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}
		return bucket.Put(entryKey(entry), value)
	})
}

// Recent returns up to limit unexpired entries, newest first. limit <= 0 means all.
func (b *boltJournal) Recent(limit int) ([]domain.JournalEntry, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	cutoff := b.now().Add(-b.entryTTL)
	var out []domain.JournalEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			at, ok := decodeTimestamp(k)
			if !ok || !at.After(cutoff) {
				break
			}
			var entry domain.JournalEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode journal entry: %w", err)
			}
			out = append(out, entry)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (b *boltJournal) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	cutoff := now.Add(-b.entryTTL)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}

		var expired [][]byte
		cursor := bucket.Cursor()
		for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
			at, ok := decodeTimestamp(k)
			if ok && at.After(cutoff) {
				break
			}
			expired = append(expired, append([]byte(nil), k...))
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func entryKey(entry domain.JournalEntry) []byte {
	key := make([]byte, timestampBytes, timestampBytes+len(entry.ID))
	binary.BigEndian.PutUint64(key, uint64(entry.At.UnixNano()))
	return append(key, entry.ID...)
}

// decodeTimestamp decodes the entry time from the key prefix.
func decodeTimestamp(key []byte) (time.Time, bool) {
	if len(key) < timestampBytes {
		return time.Time{}, false
	}
	nanos := int64(binary.BigEndian.Uint64(key[:timestampBytes]))
	if nanos <= 0 {
		return time.Time{}, false
	}
	return time.Unix(0, nanos), true
}
