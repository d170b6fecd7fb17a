package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

var bucketTranslations = []byte("translations")

type boltRecord struct {
	Key        Key       `json:"key"`
	Translated string    `json:"translated"`
	UsageCount int       `json:"usage_count"`
	LastUsed   time.Time `json:"last_used"`
	CreatedAt  time.Time `json:"created_at"`
}

// Bolt is a file-backed cache stored in a single bbolt database.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if needed) the bbolt database at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTranslations)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(_ context.Context, key Key) (string, bool, error) {
	var (
		translated string
		found      bool
	)
	id := []byte(key.Hash())
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTranslations)
		data := bucket.Get(id)
		if data == nil {
			return nil
		}
		var rec boltRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		if rec.Key != key {
			return nil
		}
		translated, found = rec.Translated, true

		rec.UsageCount++
		rec.LastUsed = time.Now()
		updated, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return bucket.Put(id, updated)
	})
	if err != nil {
		return "", false, err
	}
	return translated, found, nil
}

func (b *Bolt) Put(_ context.Context, key Key, translated string) error {
	now := time.Now()
	data, err := json.Marshal(boltRecord{
		Key:        key,
		Translated: translated,
		UsageCount: 1,
		LastUsed:   now,
		CreatedAt:  now,
	})
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTranslations).Put([]byte(key.Hash()), data)
	})
}

// Entries returns all cached translations, most recently used first.
func (b *Bolt) Entries(_ context.Context) ([]Entry, error) {
	var entries []Entry
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTranslations).ForEach(func(k, v []byte) error {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			entries = append(entries, Entry{
				ID:         string(k),
				Key:        rec.Key,
				Translated: rec.Translated,
				UsageCount: rec.UsageCount,
				LastUsed:   rec.LastUsed,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastUsed.After(entries[j].LastUsed)
	})
	return entries, nil
}

// Stats counts entries and their accumulated usage.
func (b *Bolt) Stats(ctx context.Context) (*Stats, error) {
	entries, err := b.Entries(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Entries: len(entries)}
	for _, e := range entries {
		stats.TotalUsage += e.UsageCount
	}
	return stats, nil
}

// Delete removes the entry with the given ID (its key hash).
func (b *Bolt) Delete(_ context.Context, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTranslations).Delete([]byte(id))
	})
}

// Clear removes every entry and returns how many were removed.
func (b *Bolt) Clear(_ context.Context) (int64, error) {
	var n int64
	err := b.db.Update(func(tx *bbolt.Tx) error {
		n = int64(tx.Bucket(bucketTranslations).Stats().KeyN)
		if err := tx.DeleteBucket(bucketTranslations); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketTranslations)
		return err
	})
	return n, err
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
