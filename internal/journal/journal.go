// Package journal records decoded messages in a BoltDB file.
package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"time"

	"vigenere/internal/key"

	"go.etcd.io/bbolt"
)

type Config struct {
	File    string        `yaml:"file"`
	Timeout time.Duration `yaml:"timeout"`
}

var (
	bucketDecodes = []byte("decodes")
)

var db *bbolt.DB

func Open(config Config) {
	if db != nil {
		panic("journal: already opened")
	}
	if config.File == "" {
		panic("journal: file is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	err := os.MkdirAll(filepath.Dir(config.File), 0755)
	if err != nil {
		panic(fmt.Errorf("journal: create db dir: %w", err))
	}

	db, err = bbolt.Open(config.File, 0600, &bbolt.Options{
		Timeout: config.Timeout,
	})
	if err != nil {
		panic(fmt.Errorf("journal: open bbolt db: %w", err))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDecodes)
		if err != nil {
			return fmt.Errorf("create bucket %q: %w", bucketDecodes, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		db = nil
		panic(fmt.Errorf("journal: initialize buckets: %w", err))
	}
}

func Opened() bool {
	return db != nil
}

func Close() error {
	if db == nil {
		panic("journal: not opened")
	}

	err := db.Close()
	if err != nil {
		return fmt.Errorf("journal: close bbolt db: %w", err)
	}
	db = nil
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func Closer() io.Closer {
	return closerFunc(Close)
}

// Record is one decoded message.
type Record struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Key     []int     `json:"key"`
	Lines   int       `json:"lines"`
	Decoded string    `json:"decoded"`
	At      time.Time `json:"at"`
}

// ID derives a stable record id from the encoded text and key.
func ID(source string, k []int) string {
	h := sha256.New()
	h.Write([]byte(key.Format(k)))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Errorf("journal: must: %w", err))
	}
	return v
}

func bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	b := tx.Bucket(bucketDecodes)
	if b == nil {
		return nil, fmt.Errorf("journal: decodes bucket not found")
	}
	return b, nil
}

// Add stores r and returns its id. An empty id is derived with ID.
// Adding an existing id replaces the record.
func Add(r Record) (string, error) {
	if db == nil {
		panic("journal: not opened")
	}

	if r.ID == "" {
		r.ID = ID(r.Source, r.Key)
	}
	if r.At.IsZero() {
		r.At = time.Now()
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx)
		if err != nil {
			return err
		}
		return b.Put([]byte(r.ID), must(json.Marshal(r)))
	})
	if err != nil {
		return "", fmt.Errorf("journal: add %q: %w", r.ID, err)
	}
	return r.ID, nil
}

func Get(id string) (Record, bool, error) {
	if db == nil {
		panic("journal: not opened")
	}

	var (
		r     Record
		found bool
	)
	err := db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx)
		if err != nil {
			return err
		}

		data := b.Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true

		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("journal: unmarshal record %q: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return Record{}, false, err
	}
	return r, found, nil
}

func Delete(id string) error {
	if db == nil {
		panic("journal: not opened")
	}

	return db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx)
		if err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

var errStop = fmt.Errorf("stop iteration")

// All iterates over the records in id order.
func All() iter.Seq2[string, Record] {
	if db == nil {
		panic("journal: not opened")
	}

	return func(yield func(string, Record) bool) {
		err := db.View(func(tx *bbolt.Tx) error {
			b, err := bucket(tx)
			if err != nil {
				return err
			}

			return b.ForEach(func(k, v []byte) error {
				var r Record
				err := json.Unmarshal(v, &r)
				if err != nil {
					return fmt.Errorf("journal: unmarshal record %q: %w", k, err)
				}

				if !yield(string(k), r) {
					return errStop
				}
				return nil
			})
		})

		if err != nil {
			if errors.Is(err, errStop) {
				return
			}
			panic(fmt.Errorf("journal: list records: %w", err))
		}
	}
}
