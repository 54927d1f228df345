// Package store is a named-collection key-value wrapper over a local bbolt
// database. Records are opaque JSON documents keyed by id; the store performs
// no validation and offers no cross-collection transactions. A cascade that
// touches many records is a sequence of independent Put calls, so an
// interruption leaves it partially applied and callers must re-read state.
package store

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrIO marks storage failures: the database file is unavailable or the
// transaction was rejected. Callers surface it to the user and abort without
// retrying.
var ErrIO = errors.New("storage unavailable")

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database file. The timeout keeps a second
// process from blocking forever on the file lock.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "open %s: %v", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetAll returns the raw records of a collection. A collection that was never
// written reads as empty, not as an error.
func (s *Store) GetAll(collection string) ([][]byte, error) {
	var out [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			rec := make([]byte, len(v))
			copy(rec, v)
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "getall %s: %v", collection, err)
	}
	return out, nil
}

// Put inserts or fully overwrites the record under id. Last write wins; there
// is no optimistic locking.
func (s *Store) Put(collection, id string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "encode %s/%s", collection, id)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return errors.Wrapf(ErrIO, "put %s/%s: %v", collection, id, err)
	}
	return nil
}

// Get decodes the record under id into out. Missing records report ErrNotFound.
func (s *Store) Get(collection, id string, out interface{}) error {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(ErrIO, "get %s/%s: %v", collection, id, err)
	}
	if data == nil {
		return errors.Wrapf(ErrNotFound, "%s/%s", collection, id)
	}
	return json.Unmarshal(data, out)
}

// ErrNotFound reports a lookup for an id the collection does not hold.
var ErrNotFound = errors.New("record not found")

func (s *Store) Delete(collection, id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return errors.Wrapf(ErrIO, "delete %s/%s: %v", collection, id, err)
	}
	return nil
}

// Clear drops every record of the collection.
func (s *Store) Clear(collection string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(collection)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(collection))
	})
	if err != nil {
		return errors.Wrapf(ErrIO, "clear %s: %v", collection, err)
	}
	return nil
}
