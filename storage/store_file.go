package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	cipherPrefixV1 = "v1:"
	nonceSize      = 24
)

var _ Store = (*FileStore)(nil)

// FileStore is a durable scope backed by a single JSON file. Every write
// rewrites the file through a temp file and rename, so readers never see a
// partial update. With a key the file body is sealed with secretbox.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	key    *[32]byte
	values map[string]string
}

// NewFileStore opens (or creates) the store at folder/name.json. key may be
// nil for a plaintext file, otherwise it must be 32 bytes.
func NewFileStore(folder, name string, key []byte) (*FileStore, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, fmt.Errorf("[NewFileStore] create folder: %w", err)
	}

	fs := &FileStore{
		path:   filepath.Join(folder, name+".json"),
		values: make(map[string]string),
	}
	if key != nil {
		if len(key) != 32 {
			return nil, fmt.Errorf("[NewFileStore] key must be 32 bytes, got %d", len(key))
		}
		fs.key = new([32]byte)
		copy(fs.key[:], key)
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Path returns the backing file location
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[key]
	if !ok {
		return "", perrors.ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.values[key]
	f.values[key] = value
	if err := f.persist(); err != nil {
		if existed {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, ok := f.values[key]
	if !ok {
		return nil
	}
	delete(f.values, key)
	if err := f.persist(); err != nil {
		f.values[key] = prev
		return err
	}
	return nil
}

func (f *FileStore) Keys(_ context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := f.values
	f.values = make(map[string]string)
	if err := f.persist(); err != nil {
		f.values = prev
		return err
	}
	return nil
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("[FileStore] read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	plain, err := f.open(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plain, &f.values); err != nil {
		return fmt.Errorf("[FileStore] decode %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) persist() error {
	plain, err := json.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("[FileStore] encode: %w", err)
	}
	data, err := f.seal(plain)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("[FileStore] create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("[FileStore] write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("[FileStore] close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("[FileStore] replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) seal(plain []byte) ([]byte, error) {
	if f.key == nil {
		return plain, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("[FileStore] nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, f.key)
	return []byte(cipherPrefixV1 + base64.StdEncoding.EncodeToString(sealed)), nil
}

func (f *FileStore) open(data []byte) ([]byte, error) {
	s := string(data)
	if f.key == nil {
		if strings.HasPrefix(s, cipherPrefixV1) {
			return nil, perrors.Wrapf(perrors.ErrDecrypt, "%s is encrypted but no key is configured", f.path)
		}
		return data, nil
	}
	if !strings.HasPrefix(s, cipherPrefixV1) {
		// Plaintext written before a key was configured; re-sealed on next write.
		return data, nil
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(cipherPrefixV1):])
	if err != nil || len(raw) < nonceSize {
		return nil, perrors.Wrapf(perrors.ErrDecrypt, "%s", f.path)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, f.key)
	if !ok {
		return nil, perrors.Wrapf(perrors.ErrDecrypt, "%s", f.path)
	}
	return plain, nil
}
