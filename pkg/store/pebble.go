package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"imageboard/pkg/logger"
)

var (
	db     *pebble.DB
	dbPath string
)

// StoreError wraps an I/O or corruption failure from the underlying store.
// Callers should treat it as retryable at the request level, not fatal.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Open opens (or creates) a Pebble database at the given path and keeps a
// global handle for simple usage across the process.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return &StoreError{Op: "open", Key: path, Err: err}
	}
	dbPath = path
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return &StoreError{Op: "close", Key: dbPath, Err: err}
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool { return db != nil }

// Get returns the value stored under key. The second return is false when
// the key is absent.
func Get(key []byte) ([]byte, bool, error) {
	if db == nil {
		return nil, false, errNotOpened()
	}
	v, closer, err := db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			opsTotal.WithLabelValues("get", "miss").Inc()
			return nil, false, nil
		}
		opsTotal.WithLabelValues("get", "error").Inc()
		return nil, false, &StoreError{Op: "get", Key: string(key), Err: err}
	}
	out := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	opsTotal.WithLabelValues("get", "ok").Inc()
	return out, true, nil
}

// Put writes value under key with sync durability.
func Put(key, value []byte) error {
	if db == nil {
		return errNotOpened()
	}
	if err := db.Set(key, value, pebble.Sync); err != nil {
		opsTotal.WithLabelValues("put", "error").Inc()
		logger.Error("store_put_failed", "key", string(key), "error", err)
		return &StoreError{Op: "put", Key: string(key), Err: err}
	}
	opsTotal.WithLabelValues("put", "ok").Inc()
	return nil
}

// ScanPrefix iterates all entries whose key starts with prefix, in key
// order, calling fn with copies of each key and value. Returning an error
// from fn stops the scan and propagates the error.
func ScanPrefix(prefix []byte, fn func(key, value []byte) error) error {
	if db == nil {
		return errNotOpened()
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		opsTotal.WithLabelValues("scan", "error").Inc()
		return &StoreError{Op: "scan", Key: string(prefix), Err: err}
	}
	defer iter.Close()
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		k := append([]byte(nil), iter.Key()...)
		v := append([]byte(nil), iter.Value()...)
		if err := fn(k, v); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		opsTotal.WithLabelValues("scan", "error").Inc()
		return &StoreError{Op: "scan", Key: string(prefix), Err: err}
	}
	opsTotal.WithLabelValues("scan", "ok").Inc()
	return nil
}

// CountPrefix returns the number of keys that start with prefix.
func CountPrefix(prefix []byte) (int, error) {
	n := 0
	err := ScanPrefix(prefix, func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

func errNotOpened() error {
	return &StoreError{Op: "access", Err: errors.New("pebble not opened; call store.Open first")}
}
