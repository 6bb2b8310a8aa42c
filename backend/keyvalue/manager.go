package keyvalue

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/jyhi/mdbfs/internal/mdbfslog"
)

// recordsBucket holds every key/value record; mdbfs keeps all records in
// one flat bucket.
var recordsBucket = []byte("records")

// Manager is the key-value Database Manager: a process-wide wrapper around
// one *bbolt.DB handle. See DESIGN.md for the grounding citation.
type Manager struct {
	mu     sync.Mutex
	db     *bbolt.DB
	dbName string
}

// NewManager returns a Manager with no open handle.
func NewManager() *Manager {
	return &Manager{}
}

// Open attaches the manager to the bbolt artifact at path, creating the
// records bucket if it doesn't already exist. Any previously open handle is
// closed first, with a warning, per spec §4.6.
func (m *Manager) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		mdbfslog.Warnf("keyvalue: reopening database, closing previous handle")
		_ = m.db.Close()
		m.db = nil
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return errors.Wrap(err, "open kv database")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create records bucket")
	}

	m.db = db
	m.dbName = filepath.Base(path)
	return nil
}

// Close detaches the manager from its handle. It is safe to call when no
// handle is open (logs a warning and remains Closed).
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		mdbfslog.Warnf("keyvalue: close called with no open database")
		return
	}
	if err := m.db.Close(); err != nil {
		mdbfslog.Warnf("keyvalue: error closing database: %v", err)
	}
	m.db = nil
}

func (m *Manager) handle() (*bbolt.DB, error) {
	if m.db == nil {
		return nil, errNoOpenHandle
	}
	return m.db, nil
}

var errNoOpenHandle = errors.New("no open database handle")

// GetDatabaseName returns the base name of the artifact path the manager
// was opened with. bbolt has no engine-level "database name" metadata, so
// the name is derived from the open path.
func (m *Manager) GetDatabaseName() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.handle(); err != nil {
		return "", err
	}
	return m.dbName, nil
}

// GetRecordKeys lists every key in the records bucket, iterating the
// engine's native cursor from first to last.
func (m *Manager) GetRecordKeys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	var keys []string
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		mdbfslog.Warnf("keyvalue: list record keys: %v", err)
		return nil, err
	}
	return keys, nil
}

// GetRecordValue fetches the bytes of key. A nil, nil return means the key
// does not exist.
func (m *Manager) GetRecordValue(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	var value []byte
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		v := b.Get([]byte(key))
		if v != nil {
			// bbolt's returned slice is only valid for the lifetime of the
			// transaction; copy it out. A non-nil copy keeps an empty
			// record distinct from a missing one.
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	if err != nil {
		mdbfslog.Warnf("keyvalue: get record %q: %v", key, err)
		return nil, err
	}
	return value, nil
}

// SetRecordValue upserts key's value.
func (m *Manager) SetRecordValue(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		return b.Put([]byte(key), data)
	})
	if err != nil {
		mdbfslog.Warnf("keyvalue: set record %q: %v", key, err)
		return err
	}
	return nil
}

// RenameRecord is implemented as get+delete+put across three separate
// transactions, preserving the source's non-atomicity: a crash between
// steps can leave the record deleted and not re-inserted (spec §9's open
// question; DESIGN.md calls out that this is deliberately not "fixed" by
// folding the three steps into one transaction).
func (m *Manager) RenameRecord(oldKey, newKey string) error {
	value, err := m.GetRecordValue(oldKey)
	if err != nil {
		return err
	}
	if value == nil {
		return errors.Errorf("no such record: %q", oldKey)
	}
	if err := m.removeRecord(oldKey); err != nil {
		return err
	}
	return m.SetRecordValue(newKey, value)
}

// CreateRecord inserts an empty value at key.
func (m *Manager) CreateRecord(key string) error {
	return m.SetRecordValue(key, []byte{})
}

// RemoveRecord deletes key.
func (m *Manager) RemoveRecord(key string) error {
	return m.removeRecord(key)
}

func (m *Manager) removeRecord(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		return b.Delete([]byte(key))
	})
	if err != nil {
		mdbfslog.Warnf("keyvalue: delete record %q: %v", key, err)
		return err
	}
	return nil
}
