// Package cart persists shopping carts in their own bbolt file, deliberately
// separate from the record store: the two resources share no lock and a cart
// line may reference a product that no longer exists. That is a normal state,
// not a consistency violation — Resolve simply hides such lines.
package cart

import (
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/vitrinedecor/catalogo/internal/domain"
	"github.com/vitrinedecor/catalogo/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type DB struct {
	db *bolt.DB
}

func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(store.ErrIO, "open %s: %v", path, err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Cart returns a view over one named cart. Names are browser session ids, so
// every visitor gets an independent persisted cart.
func (d *DB) Cart(name string) *Cart {
	return &Cart{db: d.db, bucket: []byte("cart:" + name)}
}

type Cart struct {
	db     *bolt.DB
	bucket []byte
}

// AddItem merges qty into the line identified by (productID, color) or
// inserts a new line with AddedAt set to now.
func (c *Cart) AddItem(productID string, qty int, color string) (domain.CartEntry, error) {
	if qty <= 0 {
		qty = 1
	}
	key := domain.CartKey(productID, color)
	var entry domain.CartEntry
	err := c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(c.bucket)
		if err != nil {
			return err
		}
		if v := b.Get([]byte(key)); v != nil {
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entry.Qty += qty
		} else {
			entry = domain.CartEntry{
				Key:       key,
				ProductID: productID,
				Qty:       qty,
				Color:     color,
				AddedAt:   domain.Timestamp(time.Now()),
			}
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return entry, errors.Wrapf(store.ErrIO, "cart add %s: %v", key, err)
	}
	return entry, nil
}

func (c *Cart) RemoveItem(key string) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return errors.Wrapf(store.ErrIO, "cart remove %s: %v", key, err)
	}
	return nil
}

// SetQty overwrites a line's quantity. Zero or less removes the line: entries
// with qty <= 0 never exist in the bucket.
func (c *Cart) SetQty(key string, qty int) error {
	if qty <= 0 {
		return c.RemoveItem(key)
	}
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		var entry domain.CartEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return err
		}
		entry.Qty = qty
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return errors.Wrapf(store.ErrIO, "cart setqty %s: %v", key, err)
	}
	return nil
}

func (c *Cart) Clear() error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(c.bucket) == nil {
			return nil
		}
		return tx.DeleteBucket(c.bucket)
	})
	if err != nil {
		return errors.Wrapf(store.ErrIO, "cart clear: %v", err)
	}
	return nil
}

// GetAll lists the cart lines ordered by insertion time.
func (c *Cart) GetAll() ([]domain.CartEntry, error) {
	var entries []domain.CartEntry
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var entry domain.CartEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(store.ErrIO, "cart getall: %v", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].AddedAt < entries[j].AddedAt })
	return entries, nil
}

// Count sums quantities across all lines.
func (c *Cart) Count() (int, error) {
	entries, err := c.GetAll()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		total += e.Qty
	}
	return total, nil
}

// Line is a cart entry joined with its product record.
type Line struct {
	Entry   domain.CartEntry `json:"entry"`
	Product domain.Product   `json:"product"`
}

// Resolve joins cart entries against the product list. Entries whose product
// id no longer resolves are dropped from the result instead of failing.
func Resolve(entries []domain.CartEntry, products []domain.Product) []Line {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		p, ok := byID[e.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, Line{Entry: e, Product: p})
	}
	return lines
}

// Total sums price*qty over resolved lines only, so unresolvable entries
// never contribute to the order total.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Product.Price * float64(l.Entry.Qty)
	}
	return total
}
