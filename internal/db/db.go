// Package db provides a named key ring stored in a BoltDB file.
//
// Keys are kept in their packed form (see package keypack) alongside the
// seed they derive and some usage bookkeeping.
package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"curve/internal/curve"
	"curve/internal/keypack"
)

var (
	bucketKeys = []byte("keys")
)

var ErrKeyNotFound = errors.New("key not found")

type Config struct {
	File string `yaml:"file"`
}

var db *bbolt.DB

func Open(config Config) {
	if db != nil {
		panic("db: already opened")
	}
	if config.File == "" {
		panic("db: file is required")
	}

	err := os.MkdirAll(filepath.Dir(config.File), 0755)
	if err != nil {
		panic(fmt.Errorf("db: create db dir: %w", err))
	}

	db, err = bbolt.Open(config.File, 0600, &bbolt.Options{
		Timeout: 30 * time.Second,
	})
	if err != nil {
		panic(fmt.Errorf("db: open bbolt db: %w", err))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{
			bucketKeys,
		} {
			_, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return fmt.Errorf("create bucket %q: %w", bucket, err)
			}
		}

		return nil
	})
	if err != nil {
		db.Close()
		db = nil
		panic(fmt.Errorf("db: initialize buckets: %w", err))
	}
}

func Close() error {
	if db == nil {
		panic("db: not opened")
	}

	err := db.Close()
	db = nil
	if err != nil {
		return fmt.Errorf("db: close bbolt db: %w", err)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func Closer() io.Closer {
	return closerFunc(Close)
}

type Entry struct {
	Packed   string    `json:"packed"`
	Seed     uint64    `json:"seed"`
	Created  time.Time `json:"created"`
	LastUsed time.Time `json:"last_used,omitzero"`
	Uses     uint64    `json:"uses"`
}

// ValidName reports whether name can label a stored key:
// 1 to 64 characters of A-Z, a-z, 0-9, '_', '-' and '.'.
func ValidName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}

	for _, c := range name {
		if c != '_' && c != '-' && c != '.' && (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Errorf("db: must: %w", err))
	}
	return v
}

func modify(name string, modify func(*Entry, bool) (*Entry, error)) error {
	if db == nil {
		panic("db: not opened")
	}

	return db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketKeys)
		if b == nil {
			return fmt.Errorf("db: keys bucket not found")
		}

		var entry *Entry
		exists := false

		data := b.Get([]byte(name))
		if data == nil {
			entry = &Entry{}
		} else {
			err := json.Unmarshal(data, &entry)
			if err != nil {
				return fmt.Errorf("db: unmarshal key %q: %w", name, err)
			}
			exists = true
		}

		var err error
		if entry, err = modify(entry, exists); err != nil {
			return fmt.Errorf("db: modify key %q: %w", name, err)
		}

		if entry == nil {
			if !exists {
				return nil
			}
			return b.Delete([]byte(name))
		}
		return b.Put([]byte(name), must(json.Marshal(entry)))
	})
}

// PutKey stores key under name, replacing any previous key and resetting
// its usage counters.
func PutKey(name, key string, now time.Time) error {
	if !ValidName(name) {
		return fmt.Errorf("db: invalid key name %q", name)
	}

	packed, err := keypack.Pack(key)
	if err != nil {
		return fmt.Errorf("db: pack key %q: %w", name, err)
	}

	return modify(name, func(_ *Entry, _ bool) (*Entry, error) {
		return &Entry{
			Packed:  packed,
			Seed:    curve.DeriveSeed(key),
			Created: now,
		}, nil
	})
}

// Key returns the key stored under name and records the use.
func Key(name string, now time.Time) (string, error) {
	var packed string
	err := modify(name, func(entry *Entry, exists bool) (*Entry, error) {
		if !exists {
			return nil, ErrKeyNotFound
		}

		entry.Uses++
		entry.LastUsed = now
		packed = entry.Packed
		return entry, nil
	})
	if err != nil {
		return "", err
	}

	key, err := keypack.Unpack(packed)
	if err != nil {
		return "", fmt.Errorf("db: unpack key %q: %w", name, err)
	}
	return key, nil
}

func DeleteKey(name string) error {
	return modify(name, func(_ *Entry, exists bool) (*Entry, error) {
		if !exists {
			return nil, ErrKeyNotFound
		}
		return nil, nil
	})
}

func Names() []string {
	var names []string
	for name := range All() {
		names = append(names, name)
	}
	return names
}

var errStop = fmt.Errorf("stop iteration")

// All iterates stored keys in name order.
func All() iter.Seq2[string, Entry] {
	if db == nil {
		panic("db: not opened")
	}

	return func(yield func(string, Entry) bool) {
		err := db.View(func(tx *bbolt.Tx) error {
			b := tx.Bucket(bucketKeys)
			if b == nil {
				return fmt.Errorf("db: keys bucket not found")
			}

			return b.ForEach(func(k, v []byte) error {
				var entry Entry
				err := json.Unmarshal(v, &entry)
				if err != nil {
					return fmt.Errorf("db: unmarshal key %q: %w", k, err)
				}

				if !yield(string(k), entry) {
					return errStop
				}
				return nil
			})
		})

		if err != nil {
			if errors.Is(err, errStop) {
				return
			}
			panic(fmt.Errorf("db: list keys: %w", err))
		}
	}
}

// Store exposes the opened key ring as a value, for callers that take
// their key ring as a dependency.
type Store struct{}

func (Store) PutKey(name, key string, now time.Time) error   { return PutKey(name, key, now) }
func (Store) Key(name string, now time.Time) (string, error) { return Key(name, now) }
func (Store) DeleteKey(name string) error                    { return DeleteKey(name) }
func (Store) All() iter.Seq2[string, Entry]                  { return All() }
