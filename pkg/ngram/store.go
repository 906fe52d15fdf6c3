package ngram

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

const storeVersion = 1

var (
	bucketName  = []byte("ngram")
	keyMeta     = []byte("meta")
	keyUnigrams = []byte("unigrams")
	keyBigrams  = []byte("bigrams")
	keyTrigrams = []byte("trigrams")
)

type storeMeta struct {
	Version int   `msgpack:"version"`
	Order   int   `msgpack:"order"`
	Tokens  int   `msgpack:"tokens"`
	SavedAt int64 `msgpack:"saved_at"`
}

// Save writes the three tables to a bbolt store at path in one transaction.
func (m *Model) Save(path string) error {
	m.mu.RLock()
	tables := map[string][]byte{}
	var encErr error
	encode := func(key []byte, v any) {
		if encErr != nil {
			return
		}
		data, err := msgpack.Marshal(v)
		if err != nil {
			encErr = fmt.Errorf("encode %s: %w", key, err)
			return
		}
		tables[string(key)] = data
	}
	encode(keyMeta, storeMeta{
		Version: storeVersion,
		Order:   m.Order,
		Tokens:  m.idx.total,
		SavedAt: time.Now().Unix(),
	})
	encode(keyUnigrams, map[string]int(m.Unigrams))
	encode(keyBigrams, map[string]int(m.Bigrams))
	encode(keyTrigrams, map[string]int(m.Trigrams))
	m.mu.RUnlock()
	if encErr != nil {
		return encErr
	}

	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("open model store %s: %w", path, err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		for k, v := range tables {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write model store %s: %w", path, err)
	}
	log.Debugf("Saved model to %s", path)
	return nil
}

// Load opens the store at path and returns a model holding its tables.
// A missing store yields ErrModelNotFound, an unreadable one ErrModelCorrupt.
// Tables absent from the store load as empty.
func Load(path string, opts ...Option) (*Model, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("stat model store: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("open model store %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrModelCorrupt, path, err)
	}
	defer db.Close()

	uni, bi, tri := FrequencyTable{}, FrequencyTable{}, FrequencyTable{}
	var meta storeMeta
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			log.Warnf("Model store %s has no %s bucket, loading empty tables", path, bucketName)
			return nil
		}
		if err := decodeKey(b, keyMeta, &meta); err != nil {
			return err
		}
		for key, table := range map[string]*FrequencyTable{
			string(keyUnigrams): &uni,
			string(keyBigrams):  &bi,
			string(keyTrigrams): &tri,
		} {
			if err := decodeKey(b, []byte(key), table); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelCorrupt, path, err)
	}
	if meta.Order != 0 && meta.Order != Order {
		log.Warnf("Model store %s was written with order %d, reading as order %d", path, meta.Order, Order)
	}

	m := NewModel(opts...)
	m.replace(uni, bi, tri)
	log.Debugf("Loaded %s from %s", m, path)
	return m, nil
}

// decodeKey leaves v untouched when key is absent.
func decodeKey(b *bolt.Bucket, key []byte, v any) error {
	data := b.Get(key)
	if data == nil {
		return nil
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
