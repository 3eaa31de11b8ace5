package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrKeyNotFound = errors.New("store: key not found")

// KVStore is the persistence contract of the storefront: a flat map of
// string keys to JSON documents. Implementations must be safe for
// concurrent use.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error) // ErrKeyNotFound when absent
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// namespaced scopes every key of a shared KVStore under "ns/".
type namespaced struct {
	kv     KVStore
	prefix string
}

// Namespace returns a view of kv whose keys live under ns. It plays the
// role of one browser's local storage: DeletePrefix("") clears only that
// client. Closing the view does not close kv.
func Namespace(kv KVStore, ns string) KVStore {
	return &namespaced{kv: kv, prefix: ns + "/"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.kv.Put(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.kv.Delete(ctx, n.prefix+key)
}

func (n *namespaced) DeletePrefix(ctx context.Context, prefix string) error {
	return n.kv.DeletePrefix(ctx, n.prefix+prefix)
}

func (n *namespaced) Ping(ctx context.Context) error { return n.kv.Ping(ctx) }

func (n *namespaced) Close() error { return nil }

// Bucket is a typed slot in a KVStore holding one JSON-encoded value.
type Bucket[T any] struct {
	kv  KVStore
	key string
}

// NewBucket binds key of kv to the type T.
func NewBucket[T any](kv KVStore, key string) Bucket[T] {
	return Bucket[T]{kv: kv, key: key}
}

// Key returns the storage key of the bucket.
func (b Bucket[T]) Key() string { return b.key }

// Load returns the stored value. A missing key or an undecodable document
// yields the zero value of T and no error; only backend failures are
// reported.
func (b Bucket[T]) Load(ctx context.Context) (T, error) {
	var v T
	raw, err := b.kv.Get(ctx, b.key)
	if errors.Is(err, ErrKeyNotFound) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("store: load %s: %w", b.key, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, nil
	}
	return v, nil
}

// Save encodes v as JSON and stores it under the bucket key.
func (b Bucket[T]) Save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", b.key, err)
	}
	if err := b.kv.Put(ctx, b.key, raw); err != nil {
		return fmt.Errorf("store: save %s: %w", b.key, err)
	}
	return nil
}

// Delete removes the bucket's value. Deleting a missing key is not an error.
func (b Bucket[T]) Delete(ctx context.Context) error {
	if err := b.kv.Delete(ctx, b.key); err != nil {
		return fmt.Errorf("store: delete %s: %w", b.key, err)
	}
	return nil
}
