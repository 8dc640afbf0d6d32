package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-redis/redis/v8"
)

// Storage keys. Values are serialized text: token is the raw session token,
// user and cartItems hold JSON.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyCartItems = "cartItems"
)

// Storage is the client-local durable store backing one browser context.
// Contexts are isolated: two Storage instances never share keys. Writes are
// atomic, so a reader sees either the previous value or the whole new one.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}

// MemoryStorage keeps values in a map. Used in tests and as the default
// backend when nothing durable is configured.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}

// FileStorage persists the whole key space as one JSON file, rewritten on
// every mutation via a temp file and rename so a crashed write never leaves
// a torn file behind.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func NewFileStorage(path string) (*FileStorage, error) {
	s := &FileStorage{path: path, values: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.values); err != nil {
		return nil, fmt.Errorf("parse storage file %s: %w", path, err)
	}
	return s, nil
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, existed := f.values[key]
	f.values[key] = value
	if err := f.flush(); err != nil {
		if existed {
			f.values[key] = old
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, existed := f.values[key]
	if !existed {
		return nil
	}
	delete(f.values, key)
	if err := f.flush(); err != nil {
		f.values[key] = old
		return err
	}
	return nil
}

func (f *FileStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old := f.values
	f.values = make(map[string]string)
	if err := f.flush(); err != nil {
		f.values = old
		return err
	}
	return nil
}

func (f *FileStorage) flush() error {
	raw, err := json.Marshal(f.values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// RedisStorage keeps one hash per browser context. Context ids must be
// unique per storefront session; pass a uuid when in doubt.
type RedisStorage struct {
	client    *redis.Client
	contextID string
}

func NewRedisStorage(addr, contextID string) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStorage{client: client, contextID: contextID}, nil
}

func (r *RedisStorage) hashKey() string {
	return "storage:" + r.contextID
}

func (r *RedisStorage) Get(key string) (string, bool, error) {
	v, err := r.client.HGet(context.Background(), r.hashKey(), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStorage) Set(key, value string) error {
	return r.client.HSet(context.Background(), r.hashKey(), key, value).Err()
}

func (r *RedisStorage) Delete(key string) error {
	return r.client.HDel(context.Background(), r.hashKey(), key).Err()
}

func (r *RedisStorage) Clear() error {
	return r.client.Del(context.Background(), r.hashKey()).Err()
}
